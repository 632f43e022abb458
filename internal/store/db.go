package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"sparql-flatten/internal/model"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// DB is the SQLite run journal.
type DB struct {
	db *sql.DB
}

// InitDB opens (or creates) the journal at dbPath and creates tables if needed.
func InitDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT,
		output TEXT,
		status TEXT,
		record_count INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		kind TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create journal tables: %w", err)
		}
	}
	return &DB{db: db}, nil
}

// Close releases the underlying connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// SaveRun stores a new run in the running state.
func (s *DB) SaveRun(runID, input, output string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO runs (id, input, output, status, record_count, created_at, updated_at) VALUES (?, ?, ?, ?, 0, ?, ?)`,
		runID, input, output, model.StatusRunning, now, now)
	return err
}

// UpdateRunStatus updates run status
func (s *DB) UpdateRunStatus(runID, status string) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`, status, now, runID)
	return err
}

// CompleteRun marks the run completed with its record count.
func (s *DB) CompleteRun(runID string, recordCount int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE runs SET status = ?, record_count = ?, updated_at = ? WHERE id = ?`,
		model.StatusCompleted, recordCount, now, runID)
	return err
}

// SaveRunError records an error for a run
func (s *DB) SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO run_errors (run_id, kind, error_message, created_at) VALUES (?, ?, ?, ?)`,
		runID, model.KindName(runErr), runErr.Error(), now)
	return err
}

// ListRuns returns all runs, newest first.
func (s *DB) ListRuns() ([]model.RunInfo, error) {
	rows, err := s.db.Query(`SELECT id, input, output, status, record_count, created_at, updated_at FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]model.RunInfo, 0)
	for rows.Next() {
		var r model.RunInfo
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Status, &r.RecordCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun fetches a single run.
func (s *DB) GetRun(runID string) (model.RunInfo, error) {
	var r model.RunInfo
	err := s.db.QueryRow(`SELECT id, input, output, status, record_count, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&r.ID, &r.Input, &r.Output, &r.Status, &r.RecordCount, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RunInfo{}, ErrNotFound
	}
	if err != nil {
		return model.RunInfo{}, err
	}
	return r, nil
}

// GetRunErrors returns the errors recorded for a run, oldest first.
func (s *DB) GetRunErrors(runID string) ([]model.RunError, error) {
	rows, err := s.db.Query(`SELECT id, run_id, kind, error_message, created_at FROM run_errors WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RunError, 0)
	for rows.Next() {
		var e model.RunError
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
