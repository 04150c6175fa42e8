package app

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// NotificationType is the kind of a toast.
type NotificationType int

// Toast kinds. Loading toasts carry a spinner and never expire.
const (
	NotificationSuccess NotificationType = iota
	NotificationError
	NotificationWarning
	NotificationInfo
	NotificationLoading
)

// LoadingNotificationID identifies the single loading toast.
const LoadingNotificationID = "loading"

// maxToasts caps the queue; the oldest toasts are dropped first.
const maxToasts = 10

var notificationNames = map[NotificationType]string{
	NotificationSuccess: "success",
	NotificationError:   "error",
	NotificationWarning: "warning",
	NotificationInfo:    "info",
	NotificationLoading: "loading",
}

func (n NotificationType) String() string {
	if name, ok := notificationNames[n]; ok {
		return name
	}
	return "unknown"
}

// Notification is a toast shown over the dashboard.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast outlived its duration. Zero means sticky.
func (n Notification) IsExpired(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) > n.Duration
}

// toastQueue is guarded by State.mu.
type toastQueue []Notification

func (q toastQueue) live(now time.Time) toastQueue {
	return slices.DeleteFunc(slices.Clone(q), func(n Notification) bool { return n.IsExpired(now) })
}

func (q toastQueue) without(id string) toastQueue {
	return slices.DeleteFunc(q, func(n Notification) bool { return n.ID == id })
}

// AddNotification queues a toast and returns its ID.
func (s *State) AddNotification(kind NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
	s.toasts = append(s.toasts, n)
	if over := len(s.toasts) - maxToasts; over > 0 {
		s.toasts = slices.Clone(s.toasts[over:])
	}
	return n.ID
}

// RemoveNotification drops a toast by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = s.toasts.without(id)
}

// ClearExpiredNotifications drops toasts past their duration.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = s.toasts.live(time.Now())
}

// GetNotifications returns the toasts that have not expired.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toasts.live(time.Now())
}

// SetLoadingNotification shows or retitles the loading toast.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.toasts, func(n Notification) bool { return n.ID == LoadingNotificationID }); i >= 0 {
		s.toasts[i].Message = message
		return
	}
	s.toasts = append(s.toasts, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading toast.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toasts = s.toasts.without(LoadingNotificationID)
}
