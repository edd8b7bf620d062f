// Package history persists a record of past validation runs in a SQLite
// database. History is record-keeping only: covgate never diffs coverage
// across commits or lets past runs influence the current verdict.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded validation run.
type Run struct {
	ID         string
	CreatedAt  time.Time
	Provenance string
	Source     string
	Lines      int
	Functions  int
	Branches   int
	Statements int
	Passed     bool
}

// Store manages the SQLite database of past runs.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a Store instance and initializes the database.
// Use ":memory:" for an in-memory database in tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		// Ensure parent directory exists for file-based databases
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so subsequent statements wait on locks instead of
	// failing immediately
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun appends one run to the history.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	const query = `
		INSERT INTO runs (id, created_at, provenance, source,
			lines_pct, functions_pct, branches_pct, statements_pct, passed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.CreatedAt.UTC(), run.Provenance, run.Source,
		run.Lines, run.Functions, run.Branches, run.Statements, run.Passed)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of 0 or less
// returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, provenance, source,
			lines_pct, functions_pct, branches_pct, statements_pct, passed
		FROM runs ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Provenance, &run.Source,
			&run.Lines, &run.Functions, &run.Branches, &run.Statements, &run.Passed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
