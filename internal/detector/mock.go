package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	detections []Detection
	err        error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetDetections sets the detections that will be returned by Detect.
func (m *MockDetector) SetDetections(detections []Detection) {
	m.detections = detections
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured detections or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.detections, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// HappyDetection returns a preset detection for a confident happy face
// centered in a 640x480 frame.
func HappyDetection() Detection {
	return Detection{
		Label:      "happy",
		Confidence: 0.91,
		Box:        image.Rect(220, 120, 420, 360),
	}
}

// NeutralDetection returns a preset detection just above the default
// confidence threshold.
func NeutralDetection() Detection {
	return Detection{
		Label:      "neutral",
		Confidence: 0.52,
		Box:        image.Rect(240, 140, 400, 340),
	}
}
