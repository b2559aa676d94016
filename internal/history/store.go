// Package history archives completed reconciliation runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"billing-reconciliation/internal/domain"
)

const defaultListLimit = 50

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// migrations holds the schema, one statement each.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id                   TEXT PRIMARY KEY,
		period               TEXT NOT NULL,
		created_at           TEXT NOT NULL,
		auto_acceptance_rate REAL NOT NULL DEFAULT 0,
		meets_target         INTEGER NOT NULL DEFAULT 0,
		payload              TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_period ON runs(period, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open history %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("could not migrate history: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport archives a run.
func (s *Store) SaveReport(ctx context.Context, run domain.Run) error {
	if run.Payload == nil {
		return fmt.Errorf("run %s has no payload", run.ID)
	}
	payload, err := json.Marshal(run.Payload)
	if err != nil {
		return fmt.Errorf("could not encode run %s: %w", run.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, period, created_at, auto_acceptance_rate, meets_target, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Period,
		run.CreatedAt.UTC().Format(timeLayout),
		run.Payload.FirmSummary.AutoAcceptanceRate,
		boolToInt(run.Payload.FirmSummary.MeetsTarget),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("could not save run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A non-positive limit
// uses the default.
func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period, created_at, auto_acceptance_rate, meets_target
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]domain.RunSummary, 0)
	for rows.Next() {
		var (
			sum       domain.RunSummary
			createdAt string
			meets     int
		)
		if err := rows.Scan(&sum.ID, &sum.Period, &createdAt, &sum.AutoAcceptanceRate, &meets); err != nil {
			return nil, fmt.Errorf("could not scan run: %w", err)
		}
		if sum.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		sum.MeetsTarget = meets != 0
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Get returns a run by id, or domain.ErrRunNotFound.
func (s *Store) Get(ctx context.Context, id string) (domain.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, period, created_at, payload FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// Latest returns the newest run for period, or domain.ErrRunNotFound.
func (s *Store) Latest(ctx context.Context, period string) (domain.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, period, created_at, payload FROM runs WHERE period = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, period)
	return scanRun(row)
}

func scanRun(row *sql.Row) (domain.Run, error) {
	var (
		run       domain.Run
		createdAt string
		payload   string
	)
	err := row.Scan(&run.ID, &run.Period, &createdAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, domain.ErrRunNotFound
	}
	if err != nil {
		return domain.Run{}, fmt.Errorf("could not load run: %w", err)
	}
	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Run{}, err
	}
	run.Payload = &domain.Payload{}
	if err := json.Unmarshal([]byte(payload), run.Payload); err != nil {
		return domain.Run{}, fmt.Errorf("could not decode run %s: %w", run.ID, err)
	}
	return run, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse created_at %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
