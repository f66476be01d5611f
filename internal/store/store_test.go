package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "moodplay.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	for _, object := range []struct{ kind, name string }{
		{"table", "captures"},
		{"table", "settings"},
		{"index", "idx_captures_created_at"},
		{"index", "idx_captures_emotion"},
	} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type=? AND name=?",
			object.kind, object.name,
		).Scan(&name)
		if err != nil {
			t.Errorf("%s %q missing after migration: %v", object.kind, object.name, err)
		}
	}
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "moodplay.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c := &Capture{ID: "c1", Emotion: "happy", Confidence: 0.9, PlaylistURI: "spotify:playlist:a", Outcome: OutcomePlayed}
	if err := s.Captures().Create(c); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Opening the same file again re-runs the migrations and keeps the data.
	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() on existing database error = %v", err)
	}
	defer s2.Close()

	list, err := s2.Captures().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != "c1" {
		t.Errorf("reopened database lost data: %+v", list)
	}
}

func TestWALMode(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "moodplay.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode query error = %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestClose(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "moodplay.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := s.db.Exec("SELECT 1"); err == nil {
		t.Error("queries should fail after Close()")
	}
}
