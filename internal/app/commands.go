package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/services"
)

const (
	// housekeepingInterval paces notification expiry and the status line clock.
	housekeepingInterval = 2 * time.Second

	// pipelineTimeout bounds a single pipeline run started from the UI.
	pipelineTimeout = 2 * time.Minute
)

// toastLifetime is how long each kind of notification stays on screen.
// Loading toasts are cleared explicitly.
var toastLifetime = map[NotificationType]time.Duration{
	NotificationInfo:    3 * time.Second,
	NotificationSuccess: 5 * time.Second,
	NotificationWarning: 5 * time.Second,
	NotificationError:   10 * time.Second,
}

func housekeepingCmd() tea.Cmd {
	return tea.Tick(housekeepingInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// startupCmd runs the pipeline once (cache permitting) and loads history.
func startupCmd(mgr *services.Manager, tr models.TimeRange) tea.Cmd {
	return tea.Batch(runPipelineCmd(mgr, false), loadHistoryCmd(mgr, tr))
}

func runPipelineCmd(mgr *services.Manager, force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()

		snap, err := mgr.Run(ctx, force)
		return SnapshotLoadedMsg{Snapshot: snap, Error: err}
	}
}

func suggestCmd(mgr *services.Manager, base string) tea.Cmd {
	return func() tea.Msg {
		return SuggestionsMsg{Suggestions: mgr.Suggest(base)}
	}
}

// loadHistoryCmd reads the hour distribution for tr together with store
// stats and service status, which the Upload Times and Info tabs share.
func loadHistoryCmd(mgr *services.Manager, tr models.TimeRange) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := HistoryLoadedMsg{Range: tr}

		msg.Distribution, msg.Error = mgr.HourDistribution(ctx, tr)
		if msg.Error != nil {
			return msg
		}
		msg.Stats, msg.Error = mgr.StoreStats(ctx)
		msg.Status = mgr.Status(ctx)
		return msg
	}
}

func compactCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		n, err := mgr.Compact(context.Background())
		return CompactResultMsg{Removed: n, Error: err}
	}
}

func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd blocks on the next event. A closed channel ends the loop.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifyCmd queues a toast of the given kind.
func notifyCmd(kind NotificationType, message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{Type: kind, Message: message, Duration: toastLifetime[kind]}
	}
}
