package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/moodplay/internal/app"
	"github.com/ayusman/moodplay/internal/capture"
	"github.com/ayusman/moodplay/internal/config"
	"github.com/ayusman/moodplay/internal/detector"
	"github.com/ayusman/moodplay/internal/launcher"
	"github.com/ayusman/moodplay/internal/mood"
	"github.com/ayusman/moodplay/internal/playback"
	"github.com/ayusman/moodplay/internal/server"
	"github.com/ayusman/moodplay/internal/store"
)

func main() {
	fmt.Println("Moodplay - Emotion-Driven Playlist Player")

	cfg := config.Load()

	// Resolve the data directory
	dataDir := cfg.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".moodplay")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize the store
	st, err := store.New(filepath.Join(dataDir, "moodplay.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Load the emotion model
	cascade := findCascade(cfg.CascadePath)
	if cascade == "" {
		log.Println("Face cascade not found; running the detector on full frames")
	}
	det, err := detector.NewYOLODetector(detector.Config{
		ModelPath:     cfg.ModelPath,
		CascadePath:   cascade,
		Labels:        cfg.Labels,
		MinConfidence: cfg.Confidence,
		IoUThreshold:  cfg.IoU,
	})
	if err != nil {
		log.Fatalf("Failed to load emotion model: %v", err)
	}
	defer det.Close()

	open := launcher.New(5 * time.Second)

	// Configure Spotify playback
	session, err := playback.NewSession(playback.SessionConfig{
		ClientID:     cfg.SpotifyID,
		ClientSecret: cfg.SpotifySecret,
		RedirectURI:  cfg.RedirectURI,
		CachePath:    filepath.Join(dataDir, "token.json"),
		Opener:       open,
	})
	if err != nil {
		log.Fatalf("Failed to configure Spotify: %v", err)
	}

	preferred := ""
	if v, err := st.Settings().Get(store.KeyPreferredDevice); err == nil {
		preferred = v
	}
	player := playback.NewPlayer(playback.PlayerConfig{
		Auth:            session,
		PreferredDevice: preferred,
		OnDevice: func(deviceID string) {
			if err := st.Settings().Set(store.KeyPreferredDevice, deviceID); err != nil {
				log.Printf("Failed to save preferred device: %v", err)
			}
		},
	})

	// Load the emotion-to-playlist mapping
	mapping, err := loadMapping(cfg)
	if err != nil {
		log.Fatalf("Failed to load playlist mapping: %v", err)
	}

	// Start the status server unless it is disabled
	appConfig := app.Config{
		Camera:   capture.NewCamera(cfg.CameraID),
		Window:   capture.NewWindow("Moodplay - press q to capture"),
		Detector: det,
		Mapping:  mapping,
		Player:   player,
		Launcher: open,
		Store:    st,
	}
	if cfg.StatusServerEnabled() {
		frames := server.NewFrameBuffer()
		live := server.NewLiveFeed()
		appConfig.OnFrame = frames.Update
		appConfig.OnDetections = live.Publish

		srv := server.New(server.Config{Store: st, Frames: frames, Live: live})
		go func() {
			log.Printf("Status server listening on http://%s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Status server failed: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Controls: q = capture and play, r = re-authorize Spotify, ESC = quit")

	if err := app.New(appConfig).Run(ctx); err != nil {
		if errors.Is(err, app.ErrCameraUnavailable) {
			log.Fatalf("Could not open camera %d: %v\nClose other applications using the webcam and check camera permissions.", cfg.CameraID, err)
		}
		log.Fatalf("Session failed: %v", err)
	}

	fmt.Println("Goodbye.")
}

// loadMapping builds the emotion-to-playlist mapping, overlaying the
// configured playlists file on the built-in defaults when one is set.
func loadMapping(cfg *config.Config) (*mood.Mapping, error) {
	if cfg.PlaylistsPath == "" {
		return mood.DefaultMapping(cfg.DefaultPlaylist), nil
	}
	return mood.LoadFile(cfg.PlaylistsPath, cfg.DefaultPlaylist)
}

// findCascade searches for the face cascade file in common locations.
// It checks the configured path first, then the local models directory,
// then the usual OpenCV install locations.
// Returns the first existing file or empty string if none found.
func findCascade(configured string) string {
	candidates := []string{
		configured,
		filepath.Join("models", "haarcascade_frontalface_default.xml"),
		"/usr/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
		"/usr/local/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
		"/opt/homebrew/share/opencv4/haarcascades/haarcascade_frontalface_default.xml",
	}

	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}

	return ""
}
