package app

import (
	"errors"
	"testing"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState()
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if s.GetSnapshot() != nil {
		t.Error("Snapshot should be nil")
	}
	if tr, _, _ := s.GetHistory(); tr != models.TimeRangeAllTime {
		t.Errorf("TimeRange = %v, want All Time", tr)
	}
	if !s.IsLoading("initial") {
		t.Error("Initial loading should be true")
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState()

	s.SetLoading("pipeline", true)
	if !s.IsLoading("pipeline") {
		t.Error("Pipeline loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("pipeline", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	resources := s.GetLoadingResources()
	if len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading("history", true)
	resources = s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != "history" {
		t.Errorf("GetLoadingResources should contain history, got %v", resources)
	}
}

func TestState_Snapshot(t *testing.T) {
	s := NewState()

	fetchErr := errors.New("quota exceeded")
	s.SetSnapshot(models.Snapshot{
		Batch:    models.Batch{RunID: "run-1", Err: fetchErr},
		Analysis: models.Analysis{Hooks: []string{"Watch Till The End"}},
	})

	got := s.GetSnapshot()
	if got == nil {
		t.Fatal("GetSnapshot returned nil")
	}
	if got.Batch.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", got.Batch.RunID)
	}
	if !errors.Is(s.GetLastError(), fetchErr) {
		t.Errorf("GetLastError = %v, want %v", s.GetLastError(), fetchErr)
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}

	// Mutating the copy must not leak into state.
	got.Batch.RunID = "changed"
	if s.GetSnapshot().Batch.RunID != "run-1" {
		t.Error("GetSnapshot should return a copy")
	}
}

func TestState_SetSuggestions(t *testing.T) {
	s := NewState()

	s.SetSuggestions(models.Suggestions{Base: "before run"})
	if s.GetBase() != "before run" {
		t.Errorf("GetBase = %q, want %q", s.GetBase(), "before run")
	}

	s.SetSnapshot(models.Snapshot{})
	s.SetSuggestions(models.Suggestions{Base: "x", Titles: []string{"Hook | x"}})
	if got := s.GetSnapshot().Suggestions.Titles; len(got) != 1 {
		t.Errorf("Titles = %v, want one title", got)
	}
}

func TestState_History(t *testing.T) {
	s := NewState()

	var dist [models.HoursPerDay]int
	dist[15] = 3
	s.SetHistory(models.TimeRange7Days, dist, models.StoreStats{TotalSamples: 3})

	tr, gotDist, stats := s.GetHistory()
	if tr != models.TimeRange7Days {
		t.Errorf("TimeRange = %v, want 7 Days", tr)
	}
	if gotDist[15] != 3 {
		t.Errorf("dist[15] = %d, want 3", gotDist[15])
	}
	if stats.TotalSamples != 3 {
		t.Errorf("TotalSamples = %d, want 3", stats.TotalSamples)
	}
}

func TestState_Status(t *testing.T) {
	s := NewState()
	if s.GetStatus().StopWords != "" {
		t.Error("status should start empty")
	}

	s.SetStatus(models.ServiceStatus{StopWords: "file", BreakerOpen: true})
	got := s.GetStatus()
	if got.StopWords != "file" || !got.BreakerOpen {
		t.Errorf("GetStatus() = %+v", got)
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState()

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState()

	s.AddNotification(NotificationInfo, "short", time.Nanosecond)
	active := s.AddNotification(NotificationInfo, "long", time.Minute)
	sticky := s.AddNotification(NotificationInfo, "sticky", 0)
	time.Sleep(time.Millisecond)

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifs))
	}
	if notifs[0].ID != active || notifs[1].ID != sticky {
		t.Errorf("kept %v, want [%s %s]", notifs, active, sticky)
	}
}

func TestState_NotificationCap(t *testing.T) {
	s := NewState()
	var first string
	for i := range maxToasts + 3 {
		id := s.AddNotification(NotificationInfo, "n", time.Minute)
		if i == 0 {
			first = id
		}
	}

	notifs := s.GetNotifications()
	if len(notifs) != maxToasts {
		t.Fatalf("len = %d, want %d", len(notifs), maxToasts)
	}
	for _, n := range notifs {
		if n.ID == first {
			t.Error("oldest notification should have been dropped")
		}
	}
}

func TestNotification_IsExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		n    Notification
		want bool
	}{
		{"sticky", Notification{CreatedAt: now.Add(-time.Hour)}, false},
		{"fresh", Notification{CreatedAt: now, Duration: time.Minute}, false},
		{"stale", Notification{CreatedAt: now.Add(-2 * time.Minute), Duration: time.Minute}, true},
	}
	for _, tt := range tests {
		if got := tt.n.IsExpired(now); got != tt.want {
			t.Errorf("%s: IsExpired = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState()

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}
	if notifs[0].Message != "loading..." {
		t.Errorf("Expected message loading..., got %s", notifs[0].Message)
	}

	// Update message
	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
