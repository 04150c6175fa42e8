package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// ErrInvalidHour is returned when a sample hour falls outside 0-23.
var ErrInvalidHour = errors.New("hour out of range 0-23")

// LegacyRunID tags samples imported from the flat history file.
const LegacyRunID = "legacy-import"

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 15:04:05 +0000 UTC",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlTimeFormat)
}

// AppendHours records a batch of hour samples in one transaction: every
// sample is appended to the log and its hour bucket is incremented.
func (db *DB) AppendHours(ctx context.Context, runID string, recordedAt time.Time, samples []models.HourSample) error {
	for _, s := range samples {
		if s.Hour < 0 || s.Hour >= models.HoursPerDay {
			return fmt.Errorf("failed to append hour %d: %w", s.Hour, ErrInvalidHour)
		}
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := appendSamplesTx(ctx, tx, runID, recordedAt, samples); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hour samples: %w", err)
	}
	return nil
}

func appendSamplesTx(ctx context.Context, tx *sql.Tx, runID string, recordedAt time.Time, samples []models.HourSample) error {
	insertSample := `
		INSERT INTO upload_hours (run_id, video_id, hour, published_at, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`
	bumpBucket := `
		INSERT INTO hour_buckets (hour, count, first_seq, last_recorded)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(hour) DO UPDATE SET
			count = count + 1,
			last_recorded = excluded.last_recorded
	`

	recorded := formatTime(recordedAt)
	for _, s := range samples {
		var published sql.NullString
		if !s.PublishedAt.IsZero() {
			published = sql.NullString{String: formatTime(s.PublishedAt), Valid: true}
		}

		res, err := tx.ExecContext(ctx, insertSample, runID, nullString(s.VideoID), s.Hour, published, recorded)
		if err != nil {
			return fmt.Errorf("failed to insert hour sample: %w", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read sample id: %w", err)
		}

		if _, err := tx.ExecContext(ctx, bumpBucket, s.Hour, seq, recorded); err != nil {
			return fmt.Errorf("failed to update hour bucket: %w", err)
		}
	}
	return nil
}

// HourBuckets returns the total count per hour ordered by when each hour
// was first recorded.
func (db *DB) HourBuckets(ctx context.Context) ([]models.HourCount, error) {
	query := `SELECT hour, count FROM hour_buckets WHERE count > 0 ORDER BY first_seq ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []models.HourCount
	for rows.Next() {
		var hc models.HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hour bucket: %w", err)
		}
		buckets = append(buckets, hc)
	}
	return buckets, rows.Err()
}

// HourDistribution returns the total count for each hour of the day.
func (db *DB) HourDistribution(ctx context.Context) ([models.HoursPerDay]int, error) {
	var dist [models.HoursPerDay]int

	buckets, err := db.HourBuckets(ctx)
	if err != nil {
		return dist, err
	}
	for _, b := range buckets {
		dist[b.Hour] = b.Count
	}
	return dist, nil
}

// HourDistributionSince counts raw samples recorded at or after since. A
// zero since returns the full distribution including compacted samples.
func (db *DB) HourDistributionSince(ctx context.Context, since time.Time) ([models.HoursPerDay]int, error) {
	if since.IsZero() {
		return db.HourDistribution(ctx)
	}

	var dist [models.HoursPerDay]int
	query := fmt.Sprintf(`
		SELECT hour, COUNT(*)
		FROM upload_hours
		%s
		GROUP BY hour
	`, sqlRecordedSinceClause)

	rows, err := db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return dist, fmt.Errorf("failed to query hour distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return dist, fmt.Errorf("failed to scan hour distribution: %w", err)
		}
		if hour >= 0 && hour < models.HoursPerDay {
			dist[hour] = count
		}
	}
	return dist, rows.Err()
}

// HourSequence returns every recorded sample as an hour, grouped by hour in
// first-seen order. Ranking this sequence gives the same result as ranking
// the raw log, and it survives compaction.
func (db *DB) HourSequence(ctx context.Context) ([]int, error) {
	buckets, err := db.HourBuckets(ctx)
	if err != nil {
		return nil, err
	}

	var total int
	for _, b := range buckets {
		total += b.Count
	}

	seq := make([]int, 0, total)
	for _, b := range buckets {
		for range b.Count {
			seq = append(seq, b.Hour)
		}
	}
	return seq, nil
}

// SampleCount returns the total number of recorded samples, compacted or not.
func (db *DB) SampleCount(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(count), 0) FROM hour_buckets`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count samples: %w", err)
	}
	return n, nil
}

// Compact drops raw samples recorded before olderThan. Bucket totals are
// untouched so the distribution never shrinks.
func (db *DB) Compact(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM upload_hours WHERE recorded_at < ?`, formatTime(olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to compact hour samples: %w", err)
	}
	return result.RowsAffected()
}

// ImportLegacyHours appends hours from the flat history file once. Later
// calls are no-ops and report zero imported samples.
func (db *DB) ImportLegacyHours(ctx context.Context, hours []int, recordedAt time.Time) (int, error) {
	samples := make([]models.HourSample, 0, len(hours))
	for _, h := range hours {
		if h < 0 || h >= models.HoursPerDay {
			return 0, fmt.Errorf("failed to import hour %d: %w", h, ErrInvalidHour)
		}
		samples = append(samples, models.HourSample{Hour: h})
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var marker string
	err = tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaLegacyImported).Scan(&marker)
	switch {
	case err == nil:
		return 0, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("failed to read import marker: %w", err)
	}

	if err := appendSamplesTx(ctx, tx, LegacyRunID, recordedAt, samples); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, upsertMetaQuery, metaLegacyImported, formatTime(recordedAt), formatTime(recordedAt)); err != nil {
		return 0, fmt.Errorf("failed to write import marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit legacy import: %w", err)
	}
	return len(samples), nil
}

// LegacyImported reports whether the flat history file was already imported.
func (db *DB) LegacyImported(ctx context.Context) (bool, error) {
	_, ok, err := db.GetMeta(ctx, metaLegacyImported)
	return ok, err
}

const upsertMetaQuery = `
	INSERT INTO meta (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

// SetMeta stores a key/value pair.
func (db *DB) SetMeta(ctx context.Context, key, value string) error {
	if _, err := db.ExecContext(ctx, upsertMetaQuery, key, value, formatTime(time.Now())); err != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta returns the value stored for key.
func (db *DB) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get meta %s: %w", key, err)
	}
	return value, true, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
