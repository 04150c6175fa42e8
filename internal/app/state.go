package app

import (
	"slices"
	"sync"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// Resources tracked while a command is in flight.
const (
	resourceInitial  = "initial"
	resourcePipeline = "pipeline"
	resourceHistory  = "history"
)

// State is what the tabs read. The root model is its only writer; tabs
// take copies through the getters.
type State struct {
	mu sync.RWMutex

	snapshot    *models.Snapshot
	lastError   error
	lastUpdated time.Time
	base        string

	timeRange    models.TimeRange
	distribution [models.HoursPerDay]int
	storeStats   models.StoreStats
	status       models.ServiceStatus

	loading map[string]bool

	toasts toastQueue
}

// NewState returns a state waiting on its first pipeline run.
func NewState() *State {
	return &State{
		timeRange: models.TimeRangeAllTime,
		loading:   map[string]bool{resourceInitial: true},
	}
}

// SetLoading marks a resource as in flight or done.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loading {
		s.loading[resource] = true
		return
	}
	delete(s.loading, resource)
}

// IsLoading reports whether resource is in flight.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[resource]
}

// AnyLoading reports whether anything is in flight.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.loading) > 0
}

// GetLoadingResources returns the in-flight resources, sorted.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.loading))
	for r := range s.loading {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// SetSnapshot stores the result of a pipeline run.
func (s *State) SetSnapshot(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snap
	s.lastError = snap.Batch.Err
	s.lastUpdated = time.Now()
}

// GetSnapshot returns a copy of the latest snapshot, or nil before the first run.
func (s *State) GetSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	snap := *s.snapshot
	return &snap
}

// SetSuggestions replaces the suggestions of the current snapshot and
// remembers the base they were built from.
func (s *State) SetSuggestions(sg models.Suggestions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = sg.Base
	if s.snapshot != nil {
		s.snapshot.Suggestions = sg
	}
}

// GetBase returns the last base text the user entered.
func (s *State) GetBase() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// SetHistory stores the hour distribution loaded for tr.
func (s *State) SetHistory(tr models.TimeRange, dist [models.HoursPerDay]int, stats models.StoreStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeRange, s.distribution, s.storeStats = tr, dist, stats
}

// GetHistory returns the selected range with its distribution and store stats.
func (s *State) GetHistory() (models.TimeRange, [models.HoursPerDay]int, models.StoreStats) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRange, s.distribution, s.storeStats
}

// SetStatus stores the latest service status.
func (s *State) SetStatus(st models.ServiceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// GetStatus returns the latest service status.
func (s *State) GetStatus() models.ServiceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// GetLastError returns the fetch error of the latest run, if any.
func (s *State) GetLastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// GetLastUpdated returns when the latest snapshot was stored.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}
