// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/logger"
	"github.com/javiermolinar/awase/internal/slot"
)

// SQLite implements event.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// New creates a new SQLite repository and runs migrations. The parent
// directory is created if missing.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

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

	logger.Debug("database opened", "path", path)
	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateEvent stores an event with its candidates.
// Returns event.ErrSlugTaken if the slug is already used.
func (s *SQLite) CreateEvent(ctx context.Context, e *event.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE slug = ?`, e.Slug).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if exists > 0 {
		return event.ErrSlugTaken
	}

	query := `
		INSERT INTO events (id, slug, title, description, edit_code, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		e.ID,
		e.Slug,
		e.Title,
		e.Description,
		e.EditCode,
		formatTime(e.CreatedAt),
		formatTime(e.ExpiresAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return event.ErrSlugTaken
		}
		return fmt.Errorf("inserting event: %w", err)
	}

	if err := insertCandidates(ctx, tx, e.ID, e.Candidates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetEventBySlug retrieves an event with candidates sorted by date, then
// start time.
func (s *SQLite) GetEventBySlug(ctx context.Context, slug string) (*event.Event, error) {
	query := `
		SELECT id, slug, title, description, edit_code, created_at, expires_at
		FROM events
		WHERE slug = ?
	`

	var (
		e                    event.Event
		createdAt, expiresAt string
	)
	err := s.db.QueryRowContext(ctx, query, slug).Scan(
		&e.ID,
		&e.Slug,
		&e.Title,
		&e.Description,
		&e.EditCode,
		&createdAt,
		&expiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, event.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", err)
	}

	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if e.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parsing expires at: %w", err)
	}

	e.Candidates, err = listCandidates(ctx, s.db, e.ID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateEvent replaces title, description, and candidates atomically.
func (s *SQLite) UpdateEvent(ctx context.Context, e *event.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ? WHERE id = ?`,
		e.Title, e.Description, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return event.ErrEventNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_dates WHERE event_id = ?`, e.ID); err != nil {
		return fmt.Errorf("deleting candidates: %w", err)
	}
	if err := insertCandidates(ctx, tx, e.ID, e.Candidates); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateResponse stores a response and its blocks. Nothing is written if
// any block fails to insert.
func (s *SQLite) CreateResponse(ctx context.Context, r *event.Response) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO responses (id, event_id, participant_name, edit_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		r.ID,
		r.EventID,
		r.ParticipantName,
		r.EditCode,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting response: %w", err)
	}

	if err := insertBlocks(ctx, tx, r.ID, r.Blocks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListResponses returns an event's responses in creation order.
func (s *SQLite) ListResponses(ctx context.Context, eventID string) ([]*event.Response, error) {
	return s.queryResponses(ctx, `WHERE event_id = ?`, eventID)
}

// FindResponsesByName returns an event's responses for one participant.
func (s *SQLite) FindResponsesByName(ctx context.Context, eventID, name string) ([]*event.Response, error) {
	return s.queryResponses(ctx, `WHERE event_id = ? AND participant_name = ?`, eventID, name)
}

func (s *SQLite) queryResponses(ctx context.Context, where string, args ...any) ([]*event.Response, error) {
	query := `
		SELECT id, event_id, participant_name, edit_code, created_at, updated_at
		FROM responses
		` + where + `
		ORDER BY created_at, rowid
	`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var responses []*event.Response
	for rows.Next() {
		var (
			r                    event.Response
			createdAt, updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.EventID, &r.ParticipantName, &r.EditCode, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning response: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated at: %w", err)
		}
		responses = append(responses, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating responses: %w", err)
	}

	for _, r := range responses {
		if r.Blocks, err = listBlocks(ctx, s.db, r.ID); err != nil {
			return nil, err
		}
	}
	return responses, nil
}

// UpdateResponseBlocks replaces a response's blocks atomically.
func (s *SQLite) UpdateResponseBlocks(ctx context.Context, id string, blocks []slot.Block, updatedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `UPDATE responses SET updated_at = ? WHERE id = ?`, formatTime(updatedAt), id)
	if err != nil {
		return fmt.Errorf("updating response: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return event.ErrResponseNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_blocks WHERE response_id = ?`, id); err != nil {
		return fmt.Errorf("deleting blocks: %w", err)
	}
	if err := insertBlocks(ctx, tx, id, blocks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteResponse removes a response and its blocks.
func (s *SQLite) DeleteResponse(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_blocks WHERE response_id = ?`, id); err != nil {
		return fmt.Errorf("deleting blocks: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting response: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return event.ErrResponseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertCandidates(ctx context.Context, tx *sql.Tx, eventID string, candidates []slot.CandidateRange) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO candidate_dates (event_id, date, start_time, end_time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range candidates {
		if _, err := stmt.ExecContext(ctx, eventID, c.Date, c.Start, c.End); err != nil {
			return fmt.Errorf("inserting candidate %s: %w", c.Date, err)
		}
	}
	return nil
}

func insertBlocks(ctx context.Context, tx *sql.Tx, responseID string, blocks []slot.Block) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO availability_blocks (response_id, date, start_time, end_time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range blocks {
		if _, err := stmt.ExecContext(ctx, responseID, b.Date, b.Start, b.End); err != nil {
			return fmt.Errorf("inserting block %s: %w", b, err)
		}
	}
	return nil
}

func listCandidates(ctx context.Context, q queryer, eventID string) ([]slot.CandidateRange, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT date, start_time, end_time
		FROM candidate_dates
		WHERE event_id = ?
		ORDER BY date, start_time
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []slot.CandidateRange
	for rows.Next() {
		var c slot.CandidateRange
		if err := rows.Scan(&c.Date, &c.Start, &c.End); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func listBlocks(ctx context.Context, q queryer, responseID string) ([]slot.Block, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT date, start_time, end_time
		FROM availability_blocks
		WHERE response_id = ?
		ORDER BY date, start_time
	`, responseID)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []slot.Block
	for rows.Next() {
		var b slot.Block
		if err := rows.Scan(&b.Date, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
