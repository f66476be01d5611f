package detector

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// YOLODetector runs an ONNX emotion model through the OpenCV DNN backend.
// Faces found by the Haar pre-pass are classified one crop at a time; when
// no face is found the whole frame goes through the model instead, so a
// capture is still possible with the cascade missing or defeated.
type YOLODetector struct {
	config Config
	net    gocv.Net
	faces  *faceFinder
	mu     sync.Mutex
}

// NewYOLODetector loads the emotion model, and the face cascade when one is
// configured, from disk.
func NewYOLODetector(config Config) (*YOLODetector, error) {
	if config.InputSize <= 0 {
		config.InputSize = DefaultConfig().InputSize
	}
	if len(config.Labels) == 0 {
		config.Labels = DefaultConfig().Labels
	}

	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("emotion model not found at %s: %w", config.ModelPath, err)
	}

	net := gocv.ReadNetFromONNX(config.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("loading emotion model %s", config.ModelPath)
	}

	d := &YOLODetector{config: config, net: net}

	if config.CascadePath != "" {
		faces, err := newFaceFinder(config.CascadePath)
		if err != nil {
			net.Close()
			return nil, err
		}
		d.faces = faces
	}

	return d, nil
}

// Detect classifies face regions in the frame. Results are filtered by the
// configured confidence threshold and ordered by descending confidence.
func (d *YOLODetector) Detect(frame *gocv.Mat) ([]Detection, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrInvalidInput)
	}
	if frame.Channels() != 3 {
		return nil, fmt.Errorf("%w: expected 3 channel BGR, got %d channels", ErrInvalidInput, frame.Channels())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var regions []image.Rectangle
	if d.faces != nil {
		regions = d.faces.find(frame)
	}

	if len(regions) == 0 {
		dets, err := d.classify(frame, image.Point{})
		if err != nil {
			return nil, err
		}
		return Rank(dets, d.config.MinConfidence), nil
	}

	var all []Detection
	for _, region := range regions {
		crop := frame.Region(region)
		dets, err := d.classify(&crop, region.Min)
		crop.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, dets...)
	}
	return Rank(all, d.config.MinConfidence), nil
}

// Close releases the model and cascade.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.faces != nil {
		err = d.faces.Close()
		d.faces = nil
	}
	if cerr := d.net.Close(); err == nil {
		err = cerr
	}
	return err
}

// classify runs one image through the network. offset shifts the returned
// boxes back into full frame coordinates when img is a crop.
func (d *YOLODetector) classify(img *gocv.Mat, offset image.Point) ([]Detection, error) {
	blob := gocv.BlobFromImage(*img, 1.0/255.0,
		image.Pt(d.config.InputSize, d.config.InputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	return d.decode(&output, img.Cols(), img.Rows(), offset)
}

// decode parses YOLO v8 style output, shaped [1, 4+classes, anchors], into
// scored boxes in source image coordinates.
func (d *YOLODetector) decode(output *gocv.Mat, srcW, srcH int, offset image.Point) ([]Detection, error) {
	dims := output.Size()
	if len(dims) != 3 || dims[0] != 1 || dims[1] <= 4 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}

	flat := output.Reshape(1, dims[1])
	defer flat.Close()

	rows := gocv.NewMat()
	defer rows.Close()
	gocv.Transpose(flat, &rows)

	classes := rows.Cols() - 4
	thresh := float32(d.config.MinConfidence)
	scaleX := float32(srcW) / float32(d.config.InputSize)
	scaleY := float32(srcH) / float32(d.config.InputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for i := 0; i < rows.Rows(); i++ {
		best := 0
		bestScore := rows.GetFloatAt(i, 4)
		for c := 1; c < classes; c++ {
			if s := rows.GetFloatAt(i, 4+c); s > bestScore {
				best, bestScore = c, s
			}
		}
		if bestScore < thresh {
			continue
		}

		cx := rows.GetFloatAt(i, 0) * scaleX
		cy := rows.GetFloatAt(i, 1) * scaleY
		w := rows.GetFloatAt(i, 2) * scaleX
		h := rows.GetFloatAt(i, 3) * scaleY

		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, best)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, thresh, float32(d.config.IoUThreshold))

	dets := make([]Detection, 0, len(keep))
	for _, idx := range keep {
		dets = append(dets, Detection{
			Label:      d.label(classIDs[idx]),
			Confidence: scores[idx],
			Box:        boxes[idx].Add(offset),
		})
	}
	return dets, nil
}

// label maps a class index to its emotion name.
func (d *YOLODetector) label(classID int) string {
	if classID >= 0 && classID < len(d.config.Labels) {
		return d.config.Labels[classID]
	}
	return strconv.Itoa(classID)
}
