// Package testutil builds synthetic frames for tests that need camera
// input without real capture hardware.
package testutil

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// SolidFrame builds a single-color BGR frame.
func SolidFrame(width, height int, c color.RGBA) *gocv.Mat {
	scalar := gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
	mat := gocv.NewMatWithSizeFromScalar(scalar, height, width, gocv.MatTypeCV8UC3)
	return &mat
}

// FaceFrame builds a frame with a bright oval on a dark background,
// roughly where a face sits in a webcam image. It will not fool a real
// cascade reliably; it exists to give pipelines plausible pixel data.
func FaceFrame(width, height int) *gocv.Mat {
	frame := SolidFrame(width, height, color.RGBA{R: 24, G: 24, B: 24})

	center := image.Pt(width/2, height/2)
	axes := image.Pt(width/6, height/4)
	gocv.Ellipse(frame, center, axes, 0, 0, 360, color.RGBA{R: 196, G: 170, B: 140}, -1)

	// Eyes and mouth
	eyeY := height/2 - height/16
	eyeRadius := width/64 + 2
	gocv.Circle(frame, image.Pt(width/2-width/24, eyeY), eyeRadius, color.RGBA{R: 32, G: 28, B: 24}, -1)
	gocv.Circle(frame, image.Pt(width/2+width/24, eyeY), eyeRadius, color.RGBA{R: 32, G: 28, B: 24}, -1)
	gocv.Ellipse(frame, image.Pt(width/2, height/2+height/12), image.Pt(width/20, height/40), 0, 0, 180, color.RGBA{R: 120, G: 60, B: 60}, 2)

	return frame
}

// FrameSequence builds n frames with drifting brightness, imitating
// consecutive webcam captures.
func FrameSequence(width, height, n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		shade := uint8(40 + (i*10)%160)
		frames = append(frames, SolidFrame(width, height, color.RGBA{R: shade, G: shade, B: shade}))
	}
	return frames
}

// CloseFrames releases every frame in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
