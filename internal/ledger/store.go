// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists organize runs and their placement records in a
// SQLite database so later invocations can score or audit earlier runs.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-sorter/pkg/types"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when no run matches the lookup.
var ErrRunNotFound = errors.New("run not found")

// Failure is a file that could not be moved during a run.
type Failure struct {
	Filename string `json:"filename" yaml:"filename"`
	Error    string `json:"error" yaml:"error"`
}

// Run is one organize batch as stored in the ledger.
type Run struct {
	ID         string            `json:"id" yaml:"id"`
	Root       string            `json:"root" yaml:"root"`
	StartedAt  time.Time         `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time         `json:"finished_at" yaml:"finished_at"`
	Moved      int               `json:"moved" yaml:"moved"`
	Skipped    int               `json:"skipped" yaml:"skipped"`
	Failed     int               `json:"failed" yaml:"failed"`
	Placements []types.Placement `json:"placements,omitempty" yaml:"placements,omitempty"`
	Failures   []Failure         `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store manages the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at cfg.Path and creates the schema if it
// does not exist.
func Open(cfg types.LedgerConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			moved INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS placements (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			source TEXT NOT NULL,
			destination TEXT NOT NULL,
			expected TEXT NOT NULL,
			actual TEXT NOT NULL,
			PRIMARY KEY (run_id, filename)
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			error TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_root ON runs(root, finished_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun writes run and its records in one transaction. An empty ID is
// replaced with a new one; the stored ID is returned.
func (s *Store) SaveRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, finished_at, moved, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root,
		run.StartedAt.UTC().Format(timeLayout),
		run.FinishedAt.UTC().Format(timeLayout),
		run.Moved, run.Skipped, run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO placements (run_id, filename, source, destination, expected, actual)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing placement insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range run.Placements {
		if _, err := stmt.ExecContext(ctx, run.ID, p.Filename, p.Source, p.Destination, p.Expected, p.Actual); err != nil {
			return "", fmt.Errorf("inserting placement %s: %w", p.Filename, err)
		}
	}

	for _, f := range run.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, filename, error) VALUES (?, ?, ?)`,
			run.ID, f.Filename, f.Error,
		); err != nil {
			return "", fmt.Errorf("inserting failure %s: %w", f.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// Runs lists the most recent runs, newest first, without their records.
// A limit of zero or less returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, root, started_at, finished_at, moved, skipped, failed
		FROM runs ORDER BY finished_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run loads one run with its placements and failures.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, moved, skipped, failed
		 FROM runs WHERE id = ?`, id)
	return s.loadRun(ctx, row)
}

// LatestRun loads the most recent run recorded for root.
func (s *Store) LatestRun(ctx context.Context, root string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, moved, skipped, failed
		 FROM runs WHERE root = ? ORDER BY finished_at DESC LIMIT 1`, root)
	return s.loadRun(ctx, row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var started, finished string
	if err := sc.Scan(&r.ID, &r.Root, &started, &finished, &r.Moved, &r.Skipped, &r.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	var err error
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("scanning run %s: started_at: %w", r.ID, err)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("scanning run %s: finished_at: %w", r.ID, err)
	}
	return r, nil
}

func (s *Store) loadRun(ctx context.Context, row *sql.Row) (Run, error) {
	r, err := scanRun(row)
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, source, destination, expected, actual
		 FROM placements WHERE run_id = ? ORDER BY filename`, r.ID)
	if err != nil {
		return Run{}, fmt.Errorf("loading placements: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p types.Placement
		if err := rows.Scan(&p.Filename, &p.Source, &p.Destination, &p.Expected, &p.Actual); err != nil {
			return Run{}, fmt.Errorf("scanning placement: %w", err)
		}
		r.Placements = append(r.Placements, p)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	frows, err := s.db.QueryContext(ctx,
		`SELECT filename, error FROM failures WHERE run_id = ? ORDER BY filename`, r.ID)
	if err != nil {
		return Run{}, fmt.Errorf("loading failures: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var f Failure
		if err := frows.Scan(&f.Filename, &f.Error); err != nil {
			return Run{}, fmt.Errorf("scanning failure: %w", err)
		}
		r.Failures = append(r.Failures, f)
	}
	return r, frows.Err()
}
