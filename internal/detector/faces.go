package detector

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Haar cascade tuning for the face pre-pass.
const (
	cascadeScaleFactor  = 1.1
	cascadeMinNeighbors = 5
	cascadeMinSide      = 40

	// facePadFraction grows each face box so the crop keeps some context
	// around the face, which the classifier was trained with.
	facePadFraction = 0.15
)

// faceFinder locates face regions with a Haar cascade so the emotion model
// only sees tight crops instead of the whole frame.
type faceFinder struct {
	classifier gocv.CascadeClassifier
}

func newFaceFinder(cascadePath string) (*faceFinder, error) {
	classifier := gocv.NewCascadeClassifier()
	if ok := classifier.Load(cascadePath); !ok {
		classifier.Close()
		return nil, fmt.Errorf("loading face cascade from %s", cascadePath)
	}
	return &faceFinder{classifier: classifier}, nil
}

// find returns padded face rectangles clamped to the frame bounds.
func (f *faceFinder) find(frame *gocv.Mat) []image.Rectangle {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)

	faces := f.classifier.DetectMultiScaleWithParams(
		gray, cascadeScaleFactor, cascadeMinNeighbors, 0,
		image.Pt(cascadeMinSide, cascadeMinSide), image.Pt(0, 0),
	)

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	padded := make([]image.Rectangle, 0, len(faces))
	for _, face := range faces {
		padded = append(padded, padRect(face, bounds, facePadFraction))
	}
	return padded
}

func (f *faceFinder) Close() error {
	return f.classifier.Close()
}

// padRect grows r by frac of its larger side on every edge, clamped to bounds.
func padRect(r image.Rectangle, bounds image.Rectangle, frac float64) image.Rectangle {
	side := r.Dx()
	if r.Dy() > side {
		side = r.Dy()
	}
	pad := int(float64(side) * frac)
	padded := image.Rect(r.Min.X-pad, r.Min.Y-pad, r.Max.X+pad, r.Max.Y+pad)
	return padded.Intersect(bounds)
}
