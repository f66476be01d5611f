// Package store persists the capture history and user settings in a local
// SQLite database.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding captures and settings.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and brings the
// schema up to date. WAL mode lets the status server read history while
// the capture loop writes; busy_timeout covers the rare write/checkpoint
// overlap.
func New(dbPath string) (*Store, error) {
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
