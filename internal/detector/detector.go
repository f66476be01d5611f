// Package detector classifies facial emotion in video frames.
package detector

import (
	"errors"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/ayusman/moodplay/internal/mood"
)

// ErrInvalidInput is returned when a frame cannot be run through the model.
var ErrInvalidInput = errors.New("invalid input frame")

// Detection is one classified face region in a frame.
type Detection struct {
	// Label is the emotion name for the winning class.
	Label string

	// Confidence is the model score for that class (0.0-1.0).
	Confidence float32

	// Box is the region in source frame coordinates.
	Box image.Rectangle
}

// Detector defines the interface for emotion detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns classified face regions
	// ordered by descending confidence. Returns an empty slice when
	// nothing scores above the configured threshold.
	Detect(frame *gocv.Mat) ([]Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for emotion detection.
type Config struct {
	// ModelPath is the ONNX emotion model to load.
	ModelPath string

	// CascadePath is the Haar cascade used to find faces before
	// classification. Empty runs the model on full frames only.
	CascadePath string

	// Labels maps model class indexes to emotion names.
	Labels []string

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// IoUThreshold controls non-maximum suppression of overlapping boxes.
	IoUThreshold float64

	// InputSize is the square side length the model expects.
	InputSize int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Labels:        mood.DefaultLabels,
		MinConfidence: 0.45,
		IoUThreshold:  0.45,
		InputSize:     640,
	}
}

// Rank drops detections below minConfidence and orders the rest by
// descending confidence.
func Rank(dets []Detection, minConfidence float64) []Detection {
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if float64(d.Confidence) >= minConfidence {
			kept = append(kept, d)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})
	return kept
}

// Dominant returns the highest confidence detection, if any.
func Dominant(dets []Detection) (Detection, bool) {
	if len(dets) == 0 {
		return Detection{}, false
	}
	best := dets[0]
	for _, d := range dets[1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return best, true
}
