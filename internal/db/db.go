// Package db is the SQLite store behind the upload-hour history: the raw
// sample log, per-hour running totals, fetch runs and a small key/value table.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// registers the pure-Go "sqlite" driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// pragmas run on every open. WAL lets the poller write while the UI reads.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
	"PRAGMA temp_store=MEMORY",
}

// schema is idempotent. upload_hours is append-only; rows past the
// retention window are folded away by Compact while hour_buckets keeps
// their counts. first_seq is the log id of an hour's first sample and
// breaks ties between equally busy hours.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS upload_hours (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		video_id TEXT,
		hour INTEGER NOT NULL CHECK (hour BETWEEN 0 AND 23),
		published_at DATETIME,
		recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_upload_hours_recorded ON upload_hours(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_upload_hours_run ON upload_hours(run_id)`,
	`CREATE TABLE IF NOT EXISTS hour_buckets (
		hour INTEGER PRIMARY KEY CHECK (hour BETWEEN 0 AND 23),
		count INTEGER NOT NULL DEFAULT 0,
		first_seq INTEGER NOT NULL,
		last_recorded DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS fetch_runs (
		run_id TEXT PRIMARY KEY,
		region TEXT NOT NULL,
		fetched_at DATETIME NOT NULL,
		item_count INTEGER DEFAULT 0,
		cached INTEGER DEFAULT 0,
		error TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fetch_runs_fetched ON fetch_runs(fetched_at)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// New opens (creating if needed) the store at path and brings its schema
// up to date.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := &DB{DB: sqlDB, path: path}

	ctx := context.Background()
	steps := []struct {
		what string
		run  func(context.Context) error
	}{
		{"connect to database", db.PingContext},
		{"configure database", func(ctx context.Context) error { return db.execAll(ctx, pragmas) }},
		{"create schema", func(ctx context.Context) error { return db.execAll(ctx, schema) }},
		{"migrate database", db.migrate},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to %s: %w", step.what, err)
		}
	}
	return db, nil
}

func (db *DB) execAll(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%.40s...: %w", stmt, err)
		}
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the WAL into the main file and closes the connection.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum reclaims space freed by Compact.
func (db *DB) Vacuum(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "VACUUM")
	return err
}
