package store

// Schema statements, applied in order on every start. Everything is
// IF NOT EXISTS so migrate is safe to re-run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS captures (
		id TEXT PRIMARY KEY,
		emotion TEXT NOT NULL,
		confidence REAL NOT NULL,
		playlist_uri TEXT NOT NULL,
		outcome TEXT NOT NULL CHECK(outcome IN ('played', 'fallback', 'failed')),
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_captures_created_at ON captures(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_captures_emotion ON captures(emotion)`,
}

func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
