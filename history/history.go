// Package history keeps a sqlite ledger of analysis runs. Only evaluation metrics and the inputs
// needed to reproduce a run are stored, never the fitted model.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

var (
	ErrNoPath  = errors.New("no history database path")
	ErrNoStore = errors.New("history store is closed or uninitialized")
	ErrNoRun   = errors.New("no run to record")
)

// timeFormat is fixed width so created_at sorts chronologically as text
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	dataset TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	seed INTEGER NOT NULL,
	test_size REAL NOT NULL,
	train_rows INTEGER NOT NULL,
	test_rows INTEGER NOT NULL,
	mse REAL NOT NULL,
	rmse REAL NOT NULL,
	r2 REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Run is a single recorded analysis
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Dataset     string    `json:"dataset"`
	Fingerprint string    `json:"fingerprint"`
	Seed        uint64    `json:"seed"`
	TestSize    float64   `json:"test_size"`
	TrainRows   int       `json:"train_rows"`
	TestRows    int       `json:"test_rows"`
	MSE         float64   `json:"mse"`
	RMSE        float64   `json:"rmse"`
	R2          float64   `json:"r2"`
}

// Store is a sqlite backed run ledger
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the ledger at path along with its parent directory
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("unable to create history dir, %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open history database, %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create runs table, %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path of the sqlite file
func (s *Store) Path() string {
	return s.path
}

// Record inserts the run. A missing id or timestamp is filled in and written back to run.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if s == nil || s.db == nil {
		return ErrNoStore
	}
	if run == nil {
		return ErrNoRun
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, dataset, fingerprint, seed, test_size, train_rows, test_rows, mse, rmse, r2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeFormat),
		run.Dataset,
		run.Fingerprint,
		int64(run.Seed),
		run.TestSize,
		run.TrainRows,
		run.TestRows,
		run.MSE,
		run.RMSE,
		run.R2,
	)
	if err != nil {
		return fmt.Errorf("unable to record run %s, %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, ErrNoStore
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, dataset, fingerprint, seed, test_size, train_rows, test_rows, mse, rmse, r2
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query runs, %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			createdAt string
			seed      int64
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Dataset, &r.Fingerprint, &seed, &r.TestSize,
			&r.TrainRows, &r.TestRows, &r.MSE, &r.RMSE, &r.R2); err != nil {
			return nil, fmt.Errorf("unable to scan run, %w", err)
		}
		r.CreatedAt, err = time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("unable to parse timestamp of run %s, %w", r.ID, err)
		}
		r.Seed = uint64(seed)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to iterate runs, %w", err)
	}
	return runs, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
