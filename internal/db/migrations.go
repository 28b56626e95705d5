package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS events (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			type           TEXT NOT NULL DEFAULT 'once' CHECK(type IN ('once', 'weekly')),
			timezone       TEXT NOT NULL DEFAULT 'UTC',
			start_date     TEXT,
			end_date       TEXT,
			status         TEXT NOT NULL DEFAULT 'collecting' CHECK(status IN ('collecting', 'closed', 'scheduled')),
			owner_email    TEXT NOT NULL,
			scheduled_date TEXT,
			scheduled_time TEXT,
			created_at     TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_owner ON events(owner_email);

		CREATE TABLE IF NOT EXISTS event_invitees (
			event_id TEXT NOT NULL,
			email    TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (event_id, email)
		);

		CREATE INDEX IF NOT EXISTS idx_invitees_email ON event_invitees(email);

		CREATE TABLE IF NOT EXISTS responses (
			event_id       TEXT NOT NULL,
			participant_id TEXT NOT NULL,
			name           TEXT NOT NULL,
			updated_at     TEXT NOT NULL,
			PRIMARY KEY (event_id, participant_id)
		);

		CREATE TABLE IF NOT EXISTS response_slots (
			event_id       TEXT NOT NULL,
			participant_id TEXT NOT NULL,
			slot_key       TEXT NOT NULL,
			mark           TEXT NOT NULL CHECK(mark IN ('available', 'maybe')),
			PRIMARY KEY (event_id, participant_id, slot_key)
		);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
