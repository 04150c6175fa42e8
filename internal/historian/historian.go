// Package historian tracks the hours of day trending videos were published
// and ranks the best hours to upload.
package historian

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// BestHoursCount is the number of hours reported as best.
const BestHoursCount = 4

// State is the lifecycle state of the history.
type State int

const (
	// StateEmpty means no upload hour has been recorded yet.
	StateEmpty State = iota
	// StatePopulated means at least one hour has been recorded.
	StatePopulated
)

// String returns the display name for a state.
func (s State) String() string {
	if s == StatePopulated {
		return "populated"
	}
	return "empty"
}

// Store is the persistent hour history.
type Store interface {
	AppendHours(ctx context.Context, runID string, recordedAt time.Time, samples []models.HourSample) error
	HourSequence(ctx context.Context) ([]int, error)
	HourDistribution(ctx context.Context) ([models.HoursPerDay]int, error)
	SampleCount(ctx context.Context) (int, error)
}

// HoursOf returns the publish hour of each item in loc. Items without a
// publish time are skipped.
func HoursOf(items []models.TrendingItem, loc *time.Location) []int {
	samples := SamplesOf(items, loc)
	hours := make([]int, 0, len(samples))
	for _, s := range samples {
		hours = append(hours, s.Hour)
	}
	return hours
}

// SamplesOf converts items to hour samples in loc.
func SamplesOf(items []models.TrendingItem, loc *time.Location) []models.HourSample {
	if loc == nil {
		loc = time.UTC
	}
	samples := make([]models.HourSample, 0, len(items))
	for _, item := range items {
		if item.PublishedAt.IsZero() {
			continue
		}
		samples = append(samples, models.HourSample{
			VideoID:     item.ID,
			PublishedAt: item.PublishedAt,
			Hour:        item.PublishedAt.In(loc).Hour(),
		})
	}
	return samples
}

// RankHours returns up to n hours by descending frequency. Ties keep the
// order in which the hours first appear in hours.
func RankHours(hours []int, n int) []models.HourCount {
	var ranked []models.HourCount
	index := make(map[int]int)

	for _, h := range hours {
		if h < 0 || h >= models.HoursPerDay {
			continue
		}
		if i, ok := index[h]; ok {
			ranked[i].Count++
			continue
		}
		index[h] = len(ranked)
		ranked = append(ranked, models.HourCount{Hour: h, Count: 1})
	}

	slices.SortStableFunc(ranked, func(a, b models.HourCount) int {
		return b.Count - a.Count
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// IsPeakHour reports whether now's hour is one of the best hours.
func IsPeakHour(now time.Time, best []models.HourCount) bool {
	hour := now.Hour()
	for _, hc := range best {
		if hc.Hour == hour {
			return true
		}
	}
	return false
}

// Historian appends batch hours to the store and ranks the combined history.
// Writes go through a single mutex so concurrent runs never interleave.
type Historian struct {
	store Store
	loc   *time.Location
	now   func() time.Time
	mu    sync.Mutex
}

// New creates a historian that buckets hours in loc.
func New(store Store, loc *time.Location) *Historian {
	if loc == nil {
		loc = time.UTC
	}
	return &Historian{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Location returns the target time zone.
func (h *Historian) Location() *time.Location {
	return h.loc
}

// ComputeBestHours records the batch's hours and ranks all hours seen so far.
// If the batch cannot be stored the ranking still covers it, and the write
// error is returned alongside the insight.
func (h *Historian) ComputeBestHours(ctx context.Context, runID string, items []models.TrendingItem) (models.HourInsight, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	samples := SamplesOf(items, h.loc)
	batchHours := make([]int, 0, len(samples))
	for _, s := range samples {
		batchHours = append(batchHours, s.Hour)
	}

	appendErr := h.store.AppendHours(ctx, runID, now, samples)
	if appendErr != nil {
		logger.Error("failed to record upload hours", "run_id", runID, "error", appendErr)
	}

	seq, err := h.store.HourSequence(ctx)
	if err != nil {
		return models.HourInsight{}, fmt.Errorf("failed to read hour history: %w", err)
	}
	if appendErr != nil {
		// History first, then the batch that could not be stored.
		seq = append(seq, batchHours...)
	}

	insight := h.insight(seq, now)
	insight.BatchHours = batchHours

	if appendErr != nil {
		return insight, fmt.Errorf("failed to record upload hours: %w", appendErr)
	}
	return insight, nil
}

// Insight ranks the stored history without recording anything.
func (h *Historian) Insight(ctx context.Context) (models.HourInsight, error) {
	seq, err := h.store.HourSequence(ctx)
	if err != nil {
		return models.HourInsight{}, fmt.Errorf("failed to read hour history: %w", err)
	}
	return h.insight(seq, h.now()), nil
}

func (h *Historian) insight(seq []int, now time.Time) models.HourInsight {
	local := now.In(h.loc)
	best := RankHours(seq, BestHoursCount)

	insight := models.HourInsight{
		BestHours:    best,
		TotalSamples: len(seq),
		CurrentHour:  local.Hour(),
		AlertActive:  IsPeakHour(local, best),
	}
	for _, hour := range seq {
		insight.Distribution[hour]++
	}
	return insight
}

// State reports whether any hour has been recorded.
func (h *Historian) State(ctx context.Context) (State, error) {
	n, err := h.store.SampleCount(ctx)
	if err != nil {
		return StateEmpty, err
	}
	if n == 0 {
		return StateEmpty, nil
	}
	return StatePopulated, nil
}
