package mood

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultMappingCoversEveryLabel(t *testing.T) {
	m := DefaultMapping("")

	for _, label := range DefaultLabels {
		uri := m.Resolve(label)
		if uri == "" {
			t.Errorf("Resolve(%q) returned empty URI", label)
		}
		if !strings.HasPrefix(uri, "spotify:playlist:") {
			t.Errorf("Resolve(%q) = %q, want a spotify:playlist: URI", label, uri)
		}
	}
}

func TestResolveUnknownLabelFallsBack(t *testing.T) {
	m := DefaultMapping("")

	if got := m.Resolve("confused"); got != DefaultFallback {
		t.Errorf("Resolve(confused) = %q, want fallback %q", got, DefaultFallback)
	}
	if got := m.Resolve(""); got != DefaultFallback {
		t.Errorf("Resolve(empty) = %q, want fallback %q", got, DefaultFallback)
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	m := DefaultMapping("")

	want := m.Resolve("happy")
	for _, label := range []string{"Happy", "HAPPY", " happy "} {
		if got := m.Resolve(label); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestNewMappingCustomFallback(t *testing.T) {
	fallback := "spotify:playlist:custom123"
	m := NewMapping(map[string]string{"happy": "spotify:playlist:abc"}, fallback)

	if got := m.Resolve("happy"); got != "spotify:playlist:abc" {
		t.Errorf("Resolve(happy) = %q", got)
	}
	if got := m.Resolve("sad"); got != fallback {
		t.Errorf("Resolve(sad) = %q, want custom fallback", got)
	}
	if got := m.Fallback(); got != fallback {
		t.Errorf("Fallback() = %q, want %q", got, fallback)
	}
}

func TestNewMappingEmptyValueFallsBack(t *testing.T) {
	m := NewMapping(map[string]string{"sad": ""}, "")

	if got := m.Resolve("sad"); got != DefaultFallback {
		t.Errorf("Resolve(sad) = %q, want fallback for empty entry", got)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	content := `{"Happy": "spotify:playlist:mine", "focus": "https://open.spotify.com/playlist/abc123?si=shared"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadFile(path, "")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if got := m.Resolve("happy"); got != "spotify:playlist:mine" {
		t.Errorf("Resolve(happy) = %q, want override", got)
	}
	if got := m.Resolve("focus"); got != "spotify:playlist:abc123" {
		t.Errorf("Resolve(focus) = %q, want normalized share link", got)
	}
	// Labels absent from the file keep their built-in playlists.
	if got := m.Resolve("sad"); got != defaultPlaylists["sad"] {
		t.Errorf("Resolve(sad) = %q, want built-in %q", got, defaultPlaylists["sad"])
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), ""); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path, ""); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already a uri", "spotify:playlist:abc", "spotify:playlist:abc"},
		{"share link", "https://open.spotify.com/playlist/abc123", "spotify:playlist:abc123"},
		{"share link with query", "https://open.spotify.com/playlist/abc123?si=xyz", "spotify:playlist:abc123"},
		{"track link untouched", "https://open.spotify.com/track/abc123", "https://open.spotify.com/track/abc123"},
		{"unrelated url", "https://example.com/playlist/abc", "https://example.com/playlist/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURI(tt.in); got != tt.want {
				t.Errorf("normalizeURI(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
