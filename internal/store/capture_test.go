package store

import (
	"path/filepath"
	"testing"
)

// newTestStore creates a Store backed by a temporary database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCaptureRepository_Create(t *testing.T) {
	s := newTestStore(t)
	repo := s.Captures()

	capture := &Capture{
		ID:          "capture-1",
		Emotion:     "happy",
		Confidence:  0.91,
		PlaylistURI: "spotify:playlist:37i9dQZF1DXdPec7aLTmlC",
		Outcome:     OutcomePlayed,
	}

	// Create the capture
	if err := repo.Create(capture); err != nil {
		t.Fatalf("failed to create capture: %v", err)
	}

	// Verify CreatedAt is set
	if capture.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set after create")
	}

	// Retrieve and verify all fields
	captures, err := repo.Recent(10)
	if err != nil {
		t.Fatalf("failed to list captures: %v", err)
	}
	if len(captures) != 1 {
		t.Fatalf("expected 1 capture, got %d", len(captures))
	}

	got := captures[0]
	if got.ID != capture.ID {
		t.Errorf("ID mismatch: got %q, want %q", got.ID, capture.ID)
	}
	if got.Emotion != capture.Emotion {
		t.Errorf("Emotion mismatch: got %q, want %q", got.Emotion, capture.Emotion)
	}
	if got.Confidence != capture.Confidence {
		t.Errorf("Confidence mismatch: got %f, want %f", got.Confidence, capture.Confidence)
	}
	if got.PlaylistURI != capture.PlaylistURI {
		t.Errorf("PlaylistURI mismatch: got %q, want %q", got.PlaylistURI, capture.PlaylistURI)
	}
	if got.Outcome != OutcomePlayed {
		t.Errorf("Outcome mismatch: got %q, want %q", got.Outcome, OutcomePlayed)
	}
}

func TestCaptureRepository_Create_RejectsUnknownOutcome(t *testing.T) {
	s := newTestStore(t)
	repo := s.Captures()

	capture := &Capture{
		ID:          "capture-1",
		Emotion:     "happy",
		Confidence:  0.91,
		PlaylistURI: "spotify:playlist:abc",
		Outcome:     Outcome("shrugged"),
	}

	if err := repo.Create(capture); err == nil {
		t.Error("creating capture with unknown outcome should fail")
	}
}

func TestCaptureRepository_Recent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Captures()

	captures := []*Capture{
		{ID: "capture-1", Emotion: "happy", Confidence: 0.91, PlaylistURI: "spotify:playlist:a", Outcome: OutcomePlayed},
		{ID: "capture-2", Emotion: "sad", Confidence: 0.64, PlaylistURI: "spotify:playlist:b", Outcome: OutcomeFallback, Detail: "no device"},
		{ID: "capture-3", Emotion: "happy", Confidence: 0.77, PlaylistURI: "spotify:playlist:a", Outcome: OutcomeFailed, Detail: "network error"},
	}

	for _, c := range captures {
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create capture %q: %v", c.ID, err)
		}
	}

	t.Run("returns all captures", func(t *testing.T) {
		list, err := repo.Recent(10)
		if err != nil {
			t.Fatalf("failed to list captures: %v", err)
		}
		if len(list) != len(captures) {
			t.Errorf("expected %d captures, got %d", len(captures), len(list))
		}
	})

	t.Run("honors the limit", func(t *testing.T) {
		list, err := repo.Recent(2)
		if err != nil {
			t.Fatalf("failed to list captures: %v", err)
		}
		if len(list) != 2 {
			t.Errorf("expected 2 captures, got %d", len(list))
		}
	})

	t.Run("defaults the limit", func(t *testing.T) {
		list, err := repo.Recent(0)
		if err != nil {
			t.Fatalf("failed to list captures: %v", err)
		}
		if len(list) != len(captures) {
			t.Errorf("expected %d captures, got %d", len(captures), len(list))
		}
	})

	t.Run("preserves outcome detail", func(t *testing.T) {
		list, err := repo.Recent(10)
		if err != nil {
			t.Fatalf("failed to list captures: %v", err)
		}

		details := make(map[string]string)
		for _, c := range list {
			details[c.ID] = c.Detail
		}
		if details["capture-2"] != "no device" {
			t.Errorf("capture-2 detail = %q, want %q", details["capture-2"], "no device")
		}
		if details["capture-1"] != "" {
			t.Errorf("capture-1 detail = %q, want empty", details["capture-1"])
		}
	})
}

func TestCaptureRepository_Recent_Empty(t *testing.T) {
	s := newTestStore(t)

	list, err := s.Captures().Recent(10)
	if err != nil {
		t.Fatalf("failed to list captures: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no captures, got %d", len(list))
	}
}

func TestCaptureRepository_CountByEmotion(t *testing.T) {
	s := newTestStore(t)
	repo := s.Captures()

	captures := []*Capture{
		{ID: "capture-1", Emotion: "happy", Confidence: 0.91, PlaylistURI: "spotify:playlist:a", Outcome: OutcomePlayed},
		{ID: "capture-2", Emotion: "happy", Confidence: 0.85, PlaylistURI: "spotify:playlist:a", Outcome: OutcomePlayed},
		{ID: "capture-3", Emotion: "sad", Confidence: 0.64, PlaylistURI: "spotify:playlist:b", Outcome: OutcomeFallback},
	}

	for _, c := range captures {
		if err := repo.Create(c); err != nil {
			t.Fatalf("failed to create capture %q: %v", c.ID, err)
		}
	}

	counts, err := repo.CountByEmotion()
	if err != nil {
		t.Fatalf("failed to count captures: %v", err)
	}

	if counts["happy"] != 2 {
		t.Errorf("happy count = %d, want 2", counts["happy"])
	}
	if counts["sad"] != 1 {
		t.Errorf("sad count = %d, want 1", counts["sad"])
	}
	if len(counts) != 2 {
		t.Errorf("expected 2 emotions, got %d", len(counts))
	}
}

func TestOutcome_Constants(t *testing.T) {
	// Verify the outcome constants match the schema check constraint
	if OutcomePlayed != "played" {
		t.Errorf("OutcomePlayed should be 'played', got %q", OutcomePlayed)
	}
	if OutcomeFallback != "fallback" {
		t.Errorf("OutcomeFallback should be 'fallback', got %q", OutcomeFallback)
	}
	if OutcomeFailed != "failed" {
		t.Errorf("OutcomeFailed should be 'failed', got %q", OutcomeFailed)
	}
}
