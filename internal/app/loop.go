package app

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/moodplay/internal/capture"
	"github.com/ayusman/moodplay/internal/detector"
	"github.com/ayusman/moodplay/internal/store"
)

// Keys the loop reacts to, besides capture.KeyEscape.
const (
	keyCapture     = 'q'
	keyReauthorize = 'r'
)

// runLoop is the main interactive loop that processes frames from the camera.
//
// Loop logic:
// 1. Read a frame from the camera
// 2. Run emotion detection and remember the latest successful result
// 3. Draw detection boxes and the status line onto a display copy
// 4. Show the copy and poll the window for a keypress
// 5. 'q' captures the current emotion and starts its playlist
// 6. 'r' drops cached credentials so the next capture re-authorizes
// 7. ESC or context cancellation ends the session
func (a *App) runLoop(ctx context.Context) error {
	// Latest successful detection result. A clean frame with no faces
	// clears it, so capturing an empty camera view stays a no-op. A
	// detection error leaves it untouched and the status line keeps
	// showing the last known emotion.
	var current []detector.Detection

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			return nil
		}

		detections, err := a.config.Detector.Detect(frame)
		if err != nil {
			log.Printf("Error detecting emotion: %v", err)
		} else {
			current = detections
		}

		// Annotate a copy; the captured frame itself stays clean.
		display := frame.Clone()
		frame.Close()
		drawDetections(&display, current)
		drawStatus(&display, current)

		a.publish(&display, current)

		a.config.Window.Show(&display)
		key := a.config.Window.PollKey()
		display.Close()

		switch key {
		case capture.KeyEscape:
			return nil
		case keyCapture:
			a.handleCapture(ctx, current)
		case keyReauthorize:
			a.handleReauthorize()
		}
	}
}

// handleCapture resolves the dominant detection to a playlist and starts
// playback, falling back to opening the playlist when the Web API cannot
// start it. Every attempt is recorded.
func (a *App) handleCapture(ctx context.Context, detections []detector.Detection) {
	dominant, ok := detector.Dominant(detections)
	if !ok {
		log.Println("Capture ignored: no emotion detected")
		return
	}

	uri := a.config.Mapping.Resolve(dominant.Label)
	log.Printf("Captured %s (confidence %.2f), playing %s", dominant.Label, dominant.Confidence, uri)

	outcome := store.OutcomePlayed
	detail := ""

	if err := a.config.Player.Play(ctx, uri); err != nil {
		log.Printf("Playback failed: %v", err)
		detail = err.Error()
		outcome = store.OutcomeFailed

		if a.config.Launcher != nil {
			if openErr := a.config.Launcher.OpenPlaylist(uri); openErr != nil {
				log.Printf("Could not open playlist: %v", openErr)
			} else {
				log.Println("Opened the playlist outside the player instead")
				outcome = store.OutcomeFallback
			}
		}
	}

	a.record(dominant, uri, outcome, detail)
}

// handleReauthorize drops cached credentials so the next capture runs the
// full authorization flow again.
func (a *App) handleReauthorize() {
	if err := a.config.Player.Invalidate(); err != nil {
		log.Printf("Failed to clear credentials: %v", err)
		return
	}
	log.Println("Credentials cleared; next capture will re-authorize")
}

// record stores the capture and its outcome.
func (a *App) record(d detector.Detection, uri string, outcome store.Outcome, detail string) {
	if a.config.Store == nil {
		return
	}

	c := &store.Capture{
		ID:          uuid.New().String(),
		Emotion:     d.Label,
		Confidence:  float64(d.Confidence),
		PlaylistURI: uri,
		Outcome:     outcome,
		Detail:      detail,
	}
	if err := a.config.Store.Captures().Create(c); err != nil {
		log.Printf("Failed to record capture: %v", err)
	}
}

// publish pushes the annotated frame and detections to the status server
// callbacks when they are wired.
func (a *App) publish(frame *gocv.Mat, detections []detector.Detection) {
	if a.config.OnDetections != nil {
		a.config.OnDetections(detections)
	}
	if a.config.OnFrame == nil {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.config.OnFrame(jpeg)
}
