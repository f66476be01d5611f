package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Make sure ambient environment does not leak into the test.
	for _, key := range []string{
		"MOODPLAY_MODEL", "MOODPLAY_CASCADE", "MOODPLAY_CONFIDENCE", "MOODPLAY_IOU",
		"MOODPLAY_LABELS", "MOODPLAY_CAMERA", "MOODPLAY_HTTP_ADDR", "MOODPLAY_DATA_DIR",
		"SPOTIFY_ID", "SPOTIFY_SECRET", "MOODPLAY_REDIRECT_URI",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ModelPath != "models/emotion.onnx" {
		t.Errorf("ModelPath = %q, want models/emotion.onnx", cfg.ModelPath)
	}
	if cfg.Confidence != 0.45 {
		t.Errorf("Confidence = %v, want 0.45", cfg.Confidence)
	}
	if cfg.IoU != 0.45 {
		t.Errorf("IoU = %v, want 0.45", cfg.IoU)
	}
	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want 0", cfg.CameraID)
	}
	if cfg.Labels != nil {
		t.Errorf("Labels = %v, want nil", cfg.Labels)
	}
	if cfg.RedirectURI != "http://127.0.0.1:8888/callback" {
		t.Errorf("RedirectURI = %q", cfg.RedirectURI)
	}
	if !cfg.StatusServerEnabled() {
		t.Error("status server should be enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MOODPLAY_MODEL", "/tmp/custom.onnx")
	t.Setenv("MOODPLAY_CONFIDENCE", "0.6")
	t.Setenv("MOODPLAY_CAMERA", "2")
	t.Setenv("MOODPLAY_LABELS", "happy, sad ,angry")

	cfg := Load()

	if cfg.ModelPath != "/tmp/custom.onnx" {
		t.Errorf("ModelPath = %q", cfg.ModelPath)
	}
	if cfg.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", cfg.Confidence)
	}
	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	want := []string{"happy", "sad", "angry"}
	if !reflect.DeepEqual(cfg.Labels, want) {
		t.Errorf("Labels = %v, want %v", cfg.Labels, want)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MOODPLAY_CONFIDENCE", "not-a-number")
	t.Setenv("MOODPLAY_CAMERA", "first")

	cfg := Load()

	if cfg.Confidence != 0.45 {
		t.Errorf("Confidence = %v, want default 0.45", cfg.Confidence)
	}
	if cfg.CameraID != 0 {
		t.Errorf("CameraID = %d, want default 0", cfg.CameraID)
	}
}

func TestStatusServerEnabled(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"default address", "127.0.0.1:8765", true},
		{"off", "off", false},
		{"off uppercase", "OFF", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{HTTPAddr: tt.addr}
			if got := cfg.StatusServerEnabled(); got != tt.want {
				t.Errorf("StatusServerEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
