// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/freetogether/internal/event"
	"github.com/javiermolinar/freetogether/internal/slot"
)

const dateLayout = "2006-01-02"

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateEvent stores a new event with its invitees.
func (s *SQLite) CreateEvent(ctx context.Context, e *event.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO events (
			id, name, type, timezone, start_date, end_date, status,
			owner_email, scheduled_date, scheduled_time, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.Type,
		e.Timezone,
		formatDate(e.StartDate),
		formatDate(e.EndDate),
		e.Status,
		e.OwnerEmail,
		nullString(e.ScheduledDate),
		nullString(e.ScheduledTime),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	if err := insertInvitees(ctx, tx, e.ID, e.Invitees); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLite) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	query := `
		SELECT id, name, type, timezone, start_date, end_date, status,
		       owner_email, scheduled_date, scheduled_time, created_at
		FROM events
		WHERE id = ?
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}

	e := events[0]
	e.Invitees, err = listInvitees(ctx, s.db, e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEvents returns the events email owns or is invited to, newest first.
func (s *SQLite) ListEvents(ctx context.Context, email string) ([]*event.Event, error) {
	query := `
		SELECT id, name, type, timezone, start_date, end_date, status,
		       owner_email, scheduled_date, scheduled_time, created_at
		FROM events
		WHERE owner_email = ?
		   OR id IN (SELECT event_id FROM event_invitees WHERE email = ?)
		ORDER BY created_at DESC, name
	`

	rows, err := s.db.QueryContext(ctx, query, email, email)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	for _, e := range events {
		e.Invitees, err = listInvitees(ctx, s.db, e.ID)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// UpdateEvent saves status and scheduling fields.
func (s *SQLite) UpdateEvent(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET name = ?, status = ?, scheduled_date = ?, scheduled_time = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		e.Name,
		e.Status,
		nullString(e.ScheduledDate),
		nullString(e.ScheduledTime),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, e.ID)
	}

	return nil
}

// AddInvitees adds addresses to the invite list, ignoring duplicates.
func (s *SQLite) AddInvitees(ctx context.Context, eventID string, emails []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = ?`, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking event: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, eventID)
	}

	if err := insertInvitees(ctx, tx, eventID, emails); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// DeleteEvent removes an event with its invitees and responses.
func (s *SQLite) DeleteEvent(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", event.ErrEventNotFound, id)
	}

	for _, table := range []string{"event_invitees", "responses", "response_slots"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE event_id = ?`, id); err != nil {
			return fmt.Errorf("deleting from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SubmitResponse replaces the participant's response for the event.
func (s *SQLite) SubmitResponse(ctx context.Context, r *event.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO responses (event_id, participant_id, name, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(event_id, participant_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert, r.EventID, r.ParticipantID, r.Name, r.UpdatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving response: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM response_slots WHERE event_id = ? AND participant_id = ?`,
		r.EventID, r.ParticipantID,
	); err != nil {
		return fmt.Errorf("clearing response slots: %w", err)
	}

	insert := `INSERT INTO response_slots (event_id, participant_id, slot_key, mark) VALUES (?, ?, ?, ?)`
	for mark, keys := range map[string][]slot.Key{"available": r.Available, "maybe": r.Maybe} {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, insert, r.EventID, r.ParticipantID, string(k), mark); err != nil {
				return fmt.Errorf("inserting slot %s: %w", k, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ListResponses returns every response for an event, ordered by participant.
func (s *SQLite) ListResponses(ctx context.Context, eventID string) ([]*event.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT participant_id, name, updated_at
		FROM responses
		WHERE event_id = ?
		ORDER BY participant_id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var responses []*event.Response
	byID := map[string]*event.Response{}
	for rows.Next() {
		var (
			r         = &event.Response{EventID: eventID}
			updatedAt string
		)
		if err := rows.Scan(&r.ParticipantID, &r.Name, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning response: %w", err)
		}
		r.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}
		responses = append(responses, r)
		byID[r.ParticipantID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating responses: %w", err)
	}
	_ = rows.Close()

	slotRows, err := s.db.QueryContext(ctx, `
		SELECT participant_id, slot_key, mark
		FROM response_slots
		WHERE event_id = ?
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying response slots: %w", err)
	}
	defer func() { _ = slotRows.Close() }()

	for slotRows.Next() {
		var participant, key, mark string
		if err := slotRows.Scan(&participant, &key, &mark); err != nil {
			return nil, fmt.Errorf("scanning response slot: %w", err)
		}
		r, ok := byID[participant]
		if !ok {
			continue
		}
		if mark == "available" {
			r.Available = append(r.Available, slot.Key(key))
		} else {
			r.Maybe = append(r.Maybe, slot.Key(key))
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating response slots: %w", err)
	}

	for _, r := range responses {
		slot.Sort(r.Available)
		slot.Sort(r.Maybe)
	}
	return responses, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanEvents(rows *sql.Rows) ([]*event.Event, error) {
	defer func() { _ = rows.Close() }()

	var events []*event.Event
	for rows.Next() {
		var (
			e             event.Event
			startDate     sql.NullString
			endDate       sql.NullString
			scheduledDate sql.NullString
			scheduledTime sql.NullString
			createdAt     string
		)
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Type,
			&e.Timezone,
			&startDate,
			&endDate,
			&e.Status,
			&e.OwnerEmail,
			&scheduledDate,
			&scheduledTime,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		if e.StartDate, err = parseDate(startDate); err != nil {
			return nil, fmt.Errorf("parsing start date: %w", err)
		}
		if e.EndDate, err = parseDate(endDate); err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}
		e.ScheduledDate = scheduledDate.String
		e.ScheduledTime = scheduledTime.String

		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

func listInvitees(ctx context.Context, q queryer, eventID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT email FROM event_invitees WHERE event_id = ? ORDER BY position, email`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying invitees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scanning invitee: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invitees: %w", err)
	}
	return emails, nil
}

func insertInvitees(ctx context.Context, q queryer, eventID string, emails []string) error {
	query := `
		INSERT INTO event_invitees (event_id, email, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM event_invitees WHERE event_id = ?))
		ON CONFLICT(event_id, email) DO NOTHING
	`
	for _, email := range emails {
		if _, err := q.ExecContext(ctx, query, eventID, email, eventID); err != nil {
			return fmt.Errorf("inserting invitee %s: %w", email, err)
		}
	}
	return nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// IsNotFound reports whether err means the event does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, event.ErrEventNotFound)
}
