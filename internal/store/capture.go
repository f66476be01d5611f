package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Outcome records how a capture's playback attempt ended.
type Outcome string

const (
	// OutcomePlayed means the playlist started on a Spotify device.
	OutcomePlayed Outcome = "played"
	// OutcomeFallback means the playlist was opened in the app or browser
	// because no device could take the play command.
	OutcomeFallback Outcome = "fallback"
	// OutcomeFailed means playback could not be started at all.
	OutcomeFailed Outcome = "failed"
)

// Capture represents a single capture keypress stored in the database.
type Capture struct {
	ID          string
	Emotion     string
	Confidence  float64
	PlaylistURI string
	Outcome     Outcome
	Detail      string
	CreatedAt   time.Time
}

// CaptureRepository provides persistence for captures.
type CaptureRepository struct {
	db *sql.DB
}

// Captures returns the capture repository for this store.
func (s *Store) Captures() *CaptureRepository {
	return &CaptureRepository{db: s.db}
}

// Create inserts a new capture into the database.
func (r *CaptureRepository) Create(c *Capture) error {
	c.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO captures (id, emotion, confidence, playlist_uri, outcome, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Emotion, c.Confidence, c.PlaylistURI, string(c.Outcome), c.Detail, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// Recent retrieves the most recent captures, newest first. A limit of zero
// or less falls back to 50.
func (r *CaptureRepository) Recent(limit int) ([]*Capture, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, emotion, confidence, playlist_uri, outcome, detail, created_at
		 FROM captures ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []*Capture
	for rows.Next() {
		c := &Capture{}
		var outcome string

		err := rows.Scan(&c.ID, &c.Emotion, &c.Confidence, &c.PlaylistURI, &outcome, &c.Detail, &c.CreatedAt)
		if err != nil {
			return nil, err
		}

		c.Outcome = Outcome(outcome)
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return captures, nil
}

// CountByEmotion returns how many captures were recorded per emotion label.
func (r *CaptureRepository) CountByEmotion() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT emotion, COUNT(*) FROM captures GROUP BY emotion`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var emotion string
		var count int

		if err := rows.Scan(&emotion, &count); err != nil {
			return nil, err
		}
		counts[emotion] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
