package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			slug        TEXT NOT NULL UNIQUE,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			edit_code   TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			expires_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS candidate_dates (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id   TEXT NOT NULL REFERENCES events(id),
			date       TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL CHECK(start_time < end_time)
		);

		CREATE TABLE IF NOT EXISTS responses (
			id               TEXT PRIMARY KEY,
			event_id         TEXT NOT NULL REFERENCES events(id),
			participant_name TEXT NOT NULL,
			edit_code        TEXT NOT NULL,
			created_at       TEXT NOT NULL,
			updated_at       TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS availability_blocks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			response_id TEXT NOT NULL REFERENCES responses(id),
			date        TEXT NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL CHECK(start_time < end_time)
		);

		CREATE INDEX IF NOT EXISTS idx_candidates_event ON candidate_dates(event_id);
		CREATE INDEX IF NOT EXISTS idx_responses_event ON responses(event_id, participant_name);
		CREATE INDEX IF NOT EXISTS idx_blocks_response ON availability_blocks(response_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
