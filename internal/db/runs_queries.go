package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// InsertFetchRun records one pipeline run.
func (db *DB) InsertFetchRun(ctx context.Context, run models.FetchRun) error {
	query := `
		INSERT INTO fetch_runs (run_id, region, fetched_at, item_count, cached, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	fetchedAt := run.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	cached := 0
	if run.Cached {
		cached = 1
	}

	_, err := db.ExecContext(ctx, query,
		run.RunID,
		run.Region,
		formatTime(fetchedAt),
		run.ItemCount,
		cached,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fetch run: %w", err)
	}
	return nil
}

// RecentFetchRuns returns the most recent runs, newest first.
func (db *DB) RecentFetchRuns(ctx context.Context, limit int) ([]models.FetchRun, error) {
	query := `
		SELECT run_id, region, fetched_at, item_count, cached, error
		FROM fetch_runs
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.FetchRun
	for rows.Next() {
		var run models.FetchRun
		var fetchedAt, errStr sql.NullString
		var cached int

		if err := rows.Scan(&run.RunID, &run.Region, &fetchedAt, &run.ItemCount, &cached, &errStr); err != nil {
			return nil, fmt.Errorf("failed to scan fetch run: %w", err)
		}

		if t, ok := parseTimeString(fetchedAt.String); ok {
			run.FetchedAt = t
		}
		run.Cached = cached != 0
		run.Error = errStr.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Stats summarizes the store for display.
func (db *DB) Stats(ctx context.Context) (models.StoreStats, error) {
	var stats models.StoreStats

	total, err := db.SampleCount(ctx)
	if err != nil {
		return stats, err
	}
	stats.TotalSamples = total

	var first, last sql.NullString
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(recorded_at), MAX(recorded_at) FROM upload_hours
	`).Scan(&stats.RawSamples, &first, &last)
	if err != nil {
		return stats, fmt.Errorf("failed to query sample stats: %w", err)
	}
	if t, ok := parseTimeString(first.String); ok {
		stats.FirstRecorded = t
	}
	if t, ok := parseTimeString(last.String); ok {
		stats.LastRecorded = t
	}

	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN error IS NOT NULL THEN 1 ELSE 0 END), 0) FROM fetch_runs
	`).Scan(&stats.FetchRuns, &stats.FailedRuns)
	if err != nil {
		return stats, fmt.Errorf("failed to query run stats: %w", err)
	}

	return stats, nil
}
