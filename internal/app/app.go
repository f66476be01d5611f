// Package app provides the main application loop for the Moodplay
// emotion-driven playlist player.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ayusman/moodplay/internal/capture"
	"github.com/ayusman/moodplay/internal/detector"
	"github.com/ayusman/moodplay/internal/mood"
	"github.com/ayusman/moodplay/internal/store"
)

// ErrCameraUnavailable is returned when the webcam cannot be opened.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Player starts playlist playback through the Spotify Web API.
// playback.Player is the real implementation.
type Player interface {
	Play(ctx context.Context, uri string) error
	Invalidate() error
}

// PlaylistOpener opens a playlist outside the Web API, in the desktop app
// or the browser. launcher.Launcher is the real implementation.
type PlaylistOpener interface {
	OpenPlaylist(uri string) error
}

// Config holds the collaborators the application loop drives.
type Config struct {
	Camera   capture.Camera
	Window   capture.Window
	Detector detector.Detector
	Mapping  *mood.Mapping
	Player   Player
	Launcher PlaylistOpener
	Store    *store.Store

	// OnFrame receives each annotated frame encoded as JPEG. Optional.
	OnFrame func(jpeg []byte)
	// OnDetections receives the detections drawn on each frame. Optional.
	OnDetections func(detections []detector.Detection)
}

// App runs the interactive capture loop.
type App struct {
	config Config
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	return &App{config: config}
}

// Run opens the camera and drives the preview loop until the user quits
// or the context is canceled. The camera and window are released on
// return; the detector and store stay open because the caller owns them.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}()
	defer func() {
		if err := a.config.Window.Close(); err != nil {
			log.Printf("Error closing window: %v", err)
		}
	}()

	return a.runLoop(ctx)
}
