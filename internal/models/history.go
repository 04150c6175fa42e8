package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows samples recorded in the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows samples recorded in the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows samples recorded in the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows the full accumulated history.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange24Hours:
		return 1
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Since returns the lower bound of the range relative to now.
// The zero time means no lower bound.
func (t TimeRange) Since(now time.Time) time.Time {
	days := t.Days()
	if days == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// HoursPerDay is the number of hour-of-day buckets.
const HoursPerDay = 24

// HourCount is an hour of day (0-23) with its frequency.
type HourCount struct {
	Hour  int
	Count int
}

// HourSample is one recorded upload hour.
type HourSample struct {
	PublishedAt time.Time
	VideoID     string
	Hour        int
}

// HourInsight is the upload-time analysis for one pipeline run.
type HourInsight struct {
	BatchHours   []int
	BestHours    []HourCount
	Distribution [HoursPerDay]int
	TotalSamples int
	CurrentHour  int
	AlertActive  bool
}

// HasHistory reports whether any upload hour has been recorded.
func (h HourInsight) HasHistory() bool {
	return h.TotalSamples > 0
}

// PeakHour returns the most frequent hour and its count.
func (h HourInsight) PeakHour() (hour, count int) {
	if len(h.BestHours) == 0 {
		return 0, 0
	}
	return h.BestHours[0].Hour, h.BestHours[0].Count
}

// BestHourSet returns the best hours as plain integers.
func (h HourInsight) BestHourSet() []int {
	hours := make([]int, 0, len(h.BestHours))
	for _, hc := range h.BestHours {
		hours = append(hours, hc.Hour)
	}
	return hours
}

// FetchRun is the persisted record of one pipeline run.
type FetchRun struct {
	FetchedAt time.Time
	RunID     string
	Region    string
	Error     string
	ItemCount int
	Cached    bool
}

// Failed reports whether the run ended with an upstream error.
func (f FetchRun) Failed() bool {
	return f.Error != ""
}

// Snapshot is everything one pipeline run produced.
type Snapshot struct {
	Batch       Batch
	Analysis    Analysis
	Suggestions Suggestions
	Hours       HourInsight
	RecentRuns  []FetchRun
	WordCloud   string
}

// StoreStats summarizes the history store.
type StoreStats struct {
	FirstRecorded time.Time
	LastRecorded  time.Time
	TotalSamples  int
	RawSamples    int
	FetchRuns     int
	FailedRuns    int
}

// Compacted returns how many samples survive only as bucket counts.
func (s StoreStats) Compacted() int {
	return s.TotalSamples - s.RawSamples
}
