package info

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/app"
	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/version"
)

func testConfig() *config.Config {
	return &config.Config{
		APIKey:          "AIzaSecretKey1234",
		RegionCode:      "IN",
		MaxResults:      50,
		RefreshInterval: time.Hour,
		Timezone:        "Asia/Kolkata",
		HookPolicy:      "v2",
		DatabasePath:    "/tmp/history.db",
		AlertsEnabled:   true,
	}
}

func TestNew(t *testing.T) {
	m := New(app.NewState(), testConfig())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() != nil {
		t.Error("Init should not issue commands")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState(), testConfig())

	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	if cmd != nil {
		t.Error("non-key messages should be ignored")
	}
}

func TestModel_View(t *testing.T) {
	version.Reset()
	version.Version = "v1.2.3"
	version.Commit = "abc1234"
	version.Date = "2026-10-01"
	t.Cleanup(version.Reset)

	m := New(app.NewState(), testConfig())
	m.SetSize(100, 60)

	view := m.View()
	for _, want := range []string{"Asia/Kolkata", "/tmp/history.db", "v1.2.3", "abc1234", "never", "••••••••1234"} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
	if strings.Contains(view, "AIzaSecretKey1234") {
		t.Error("API key should be masked by default")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	if !strings.Contains(m.View(), "AIzaSecretKey1234") {
		t.Error("v should reveal the API key")
	}
}

func TestModel_ViewStatus(t *testing.T) {
	state := app.NewState()
	state.SetSnapshot(models.Snapshot{
		Batch: models.Batch{
			Err:   errors.New("quotaExceeded"),
			Items: []models.TrendingItem{{ID: "a"}},
		},
		WordCloud: "/tmp/wordcloud.png",
	})
	state.SetHistory(models.TimeRangeAllTime, [models.HoursPerDay]int{}, models.StoreStats{
		TotalSamples: 1200, RawSamples: 200, FetchRuns: 7, FailedRuns: 2,
	})

	state.SetStatus(models.ServiceStatus{
		StopWords:   "remote",
		HookPolicy:  "v2",
		History:     "populated",
		BreakerOpen: true,
	})

	m := New(state, nil)
	m.SetSize(100, 80)

	view := m.View()
	for _, want := range []string{
		"Configuration not loaded",
		"quotaExceeded",
		"/tmp/wordcloud.png",
		"1,200",
		"7 (2 failed)",
		"remote",
		"open, calls paused",
		"populated",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "(not set)"},
		{"abc", "•••"},
		{"abcdefgh", "••••••••efgh"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState(), nil)
	if len(m.ShortHelp()) != 1 {
		t.Errorf("ShortHelp len = %d, want 1", len(m.ShortHelp()))
	}
	if len(m.FullHelp()) != 2 {
		t.Errorf("FullHelp len = %d, want 2", len(m.FullHelp()))
	}
}
