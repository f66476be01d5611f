package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob for moodplay. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	ModelPath   string
	CascadePath string
	Confidence  float64
	IoU         float64
	Labels      []string

	CameraID int

	SpotifyID       string
	SpotifySecret   string
	RedirectURI     string
	PlaylistsPath   string
	DefaultPlaylist string

	HTTPAddr string
	DataDir  string
}

// StatusServerEnabled reports whether the local status server should run.
// MOODPLAY_HTTP_ADDR=off turns it off.
func (c *Config) StatusServerEnabled() bool {
	return c.HTTPAddr != "" && !strings.EqualFold(c.HTTPAddr, "off")
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		ModelPath:       getEnv("MOODPLAY_MODEL", "models/emotion.onnx"),
		CascadePath:     getEnv("MOODPLAY_CASCADE", ""),
		Confidence:      getEnvFloat("MOODPLAY_CONFIDENCE", 0.45),
		IoU:             getEnvFloat("MOODPLAY_IOU", 0.45),
		Labels:          getEnvList("MOODPLAY_LABELS"),
		CameraID:        getEnvInt("MOODPLAY_CAMERA", 0),
		SpotifyID:       getEnv("SPOTIFY_ID", ""),
		SpotifySecret:   getEnv("SPOTIFY_SECRET", ""),
		RedirectURI:     getEnv("MOODPLAY_REDIRECT_URI", "http://127.0.0.1:8888/callback"),
		PlaylistsPath:   getEnv("MOODPLAY_PLAYLISTS", ""),
		DefaultPlaylist: getEnv("MOODPLAY_DEFAULT_PLAYLIST", ""),
		HTTPAddr:        getEnv("MOODPLAY_HTTP_ADDR", "127.0.0.1:8765"),
		DataDir:         getEnv("MOODPLAY_DATA_DIR", ""),
	}

	if cfg.SpotifyID == "" || cfg.SpotifySecret == "" {
		log.Println("WARNING: SPOTIFY_ID or SPOTIFY_SECRET is not set; playback will be unavailable")
	}

	return cfg
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if floatVal, err := strconv.ParseFloat(v, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated value, dropping empty entries.
// An unset key yields nil so callers can fall back to model defaults.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
