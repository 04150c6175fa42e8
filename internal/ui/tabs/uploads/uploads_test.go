package uploads

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

func sampleState() *app.State {
	state := app.NewState()

	var dist [models.HoursPerDay]int
	dist[9] = 3
	dist[15] = 5
	dist[20] = 1

	state.SetSnapshot(models.Snapshot{
		Hours: models.HourInsight{
			BatchHours:   []int{15, 9, 15},
			BestHours:    []models.HourCount{{Hour: 15, Count: 5}, {Hour: 9, Count: 3}, {Hour: 20, Count: 1}},
			Distribution: dist,
			TotalSamples: 9,
			CurrentHour:  15,
			AlertActive:  true,
		},
		RecentRuns: []models.FetchRun{
			{FetchedAt: time.Now(), Region: "IN", ItemCount: 50},
			{FetchedAt: time.Now().Add(-time.Hour), Region: "IN", Error: "quotaExceeded"},
		},
	})
	state.SetHistory(models.TimeRange7Days, dist, models.StoreStats{
		FirstRecorded: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TotalSamples:  9,
		RawSamples:    6,
		FetchRuns:     2,
		FailedRuns:    1,
	})
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not issue commands")
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)
	if !strings.Contains(m.View(), "No upload hours recorded yet") {
		t.Error("View should explain the empty history")
	}
}

func TestModel_View(t *testing.T) {
	m := New(sampleState())
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{
		"Upload Times",
		"7 Days",
		"3 compacted",
		"best hours to upload",
		"15:00-16:00",
		"Latest batch published at hours: 09 15",
		"quotaExceeded",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestModel_ToggleRange(t *testing.T) {
	m := New(sampleState())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if cmd == nil {
		t.Fatal("t should request history")
	}
	msg, ok := cmd().(app.LoadHistoryMsg)
	if !ok {
		t.Fatalf("expected LoadHistoryMsg, got %T", cmd())
	}
	if msg.Range != models.TimeRange30Days {
		t.Errorf("Range = %v, want %v", msg.Range, models.TimeRange30Days)
	}
}

func TestModel_TabSwitchReloads(t *testing.T) {
	state := sampleState()
	m := New(state)

	_, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabUploads})
	if cmd == nil {
		t.Fatal("switching to the tab should reload history")
	}
	if msg, ok := cmd().(app.LoadHistoryMsg); !ok || msg.Range != models.TimeRange7Days {
		t.Errorf("unexpected reload message %+v", msg)
	}

	state.SetLoading("history", true)
	if _, cmd := m.Update(app.TabSwitchMsg{Tab: app.TabUploads}); cmd != nil {
		t.Error("no reload while history is already loading")
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 2 {
		t.Errorf("ShortHelp len = %d, want 2", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp len = %d, want 2", len(m.FullHelp()))
	}
}
