package models

import (
	"testing"
	"time"
)

func TestTimeRange_String(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want string
	}{
		{"24Hours", TimeRange24Hours, "24 Hours"},
		{"7Days", TimeRange7Days, "7 Days"},
		{"30Days", TimeRange30Days, "30 Days"},
		{"AllTime", TimeRangeAllTime, "All Time"},
		{"Unknown", TimeRange(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("TimeRange.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Days(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want int
	}{
		{"24Hours", TimeRange24Hours, 1},
		{"7Days", TimeRange7Days, 7},
		{"30Days", TimeRange30Days, 30},
		{"AllTime", TimeRangeAllTime, 0},
		{"Unknown", TimeRange(999), 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Days(); got != tt.want {
				t.Errorf("TimeRange.Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Next(t *testing.T) {
	tests := []struct {
		name string
		tr   TimeRange
		want TimeRange
	}{
		{"24Hours -> 7Days", TimeRange24Hours, TimeRange7Days},
		{"7Days -> 30Days", TimeRange7Days, TimeRange30Days},
		{"30Days -> AllTime", TimeRange30Days, TimeRangeAllTime},
		{"AllTime -> 24Hours", TimeRangeAllTime, TimeRange24Hours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Next(); got != tt.want {
				t.Errorf("TimeRange.Next() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange_Since(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	if got := TimeRangeAllTime.Since(now); !got.IsZero() {
		t.Errorf("AllTime.Since() = %v, want zero time", got)
	}
	if got, want := TimeRange7Days.Since(now), now.AddDate(0, 0, -7); !got.Equal(want) {
		t.Errorf("7Days.Since() = %v, want %v", got, want)
	}
}

func TestHourInsight_PeakHour(t *testing.T) {
	tests := []struct {
		name      string
		insight   HourInsight
		wantHour  int
		wantCount int
	}{
		{"Empty", HourInsight{}, 0, 0},
		{"Populated", HourInsight{BestHours: []HourCount{{Hour: 15, Count: 4}, {Hour: 9, Count: 2}}}, 15, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, count := tt.insight.PeakHour()
			if hour != tt.wantHour || count != tt.wantCount {
				t.Errorf("PeakHour() = (%d, %d), want (%d, %d)", hour, count, tt.wantHour, tt.wantCount)
			}
		})
	}
}

func TestHourInsight_BestHourSet(t *testing.T) {
	h := HourInsight{BestHours: []HourCount{{Hour: 15, Count: 4}, {Hour: 9, Count: 2}, {Hour: 0, Count: 1}}}
	got := h.BestHourSet()
	want := []int{15, 9, 0}
	if len(got) != len(want) {
		t.Fatalf("BestHourSet() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("BestHourSet()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if (HourInsight{}).HasHistory() {
		t.Error("empty insight should report no history")
	}
}

func TestFetchRun_Failed(t *testing.T) {
	if (FetchRun{}).Failed() {
		t.Error("run without error should not be failed")
	}
	if !(FetchRun{Error: "quotaExceeded"}).Failed() {
		t.Error("run with error should be failed")
	}
}
