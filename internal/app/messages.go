package app

import (
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SnapshotLoadedMsg carries the result of a pipeline run.
type SnapshotLoadedMsg struct {
	Error    error
	Snapshot models.Snapshot
}

// SuggestRequestMsg asks for suggestions built around base text.
type SuggestRequestMsg struct {
	Base string
}

// SuggestionsMsg carries rebuilt suggestions.
type SuggestionsMsg struct {
	Suggestions models.Suggestions
}

// HistoryLoadedMsg carries the hour distribution for a time range.
type HistoryLoadedMsg struct {
	Error        error
	Stats        models.StoreStats
	Status       models.ServiceStatus
	Distribution [models.HoursPerDay]int
	Range        models.TimeRange
}

// LoadHistoryMsg requests the hour distribution for a time range.
type LoadHistoryMsg struct {
	Range models.TimeRange
}

// CompactRequestMsg requests compaction of old raw samples.
type CompactRequestMsg struct{}

// CompactResultMsg contains the result of a compaction.
type CompactResultMsg struct {
	Error   error
	Removed int64
}

// RefreshMsg requests a pipeline run. Force bypasses the fetch cache.
type RefreshMsg struct {
	Force bool
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// InputFocusMsg reports whether a tab has captured keyboard input.
// Global key bindings are suspended while it does.
type InputFocusMsg struct {
	Focused bool
}
