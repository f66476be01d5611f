package app

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/moodplay/internal/detector"
)

var (
	boxColor    = color.RGBA{R: 0, G: 200, B: 0}
	statusColor = color.RGBA{R: 255, G: 255, B: 255}
)

// drawDetections draws a labeled box around each detected face.
func drawDetections(frame *gocv.Mat, detections []detector.Detection) {
	for _, d := range detections {
		gocv.Rectangle(frame, d.Box, boxColor, 2)

		label := fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
		origin := image.Pt(d.Box.Min.X, d.Box.Min.Y-8)
		if origin.Y < 16 {
			// Label would fall off the top of the frame; draw it inside
			// the box instead.
			origin.Y = d.Box.Min.Y + 20
		}
		gocv.PutText(frame, label, origin, gocv.FontHersheySimplex, 0.7, boxColor, 2)
	}
}

// drawStatus writes the current dominant emotion in the top-left corner.
func drawStatus(frame *gocv.Mat, detections []detector.Detection) {
	label, conf := "none", float32(0)
	if dominant, ok := detector.Dominant(detections); ok {
		label, conf = dominant.Label, dominant.Confidence
	}
	text := fmt.Sprintf("Current: %s (conf %.2f)", label, conf)
	gocv.PutText(frame, text, image.Pt(10, 30), gocv.FontHersheySimplex, 0.85, statusColor, 2)
}
