// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/trending-dashboard-tui/internal/analyzer"
	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/db"
	"github.com/j-veylop/trending-dashboard-tui/internal/historian"
	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/stopwords"
	"github.com/j-veylop/trending-dashboard-tui/internal/suggest"
	"github.com/j-veylop/trending-dashboard-tui/internal/wordcloud"
	"github.com/j-veylop/trending-dashboard-tui/internal/youtube"
)

const (
	recentRunsLimit = 10
	wordCloudWidth  = 800
	wordCloudHeight = 400
)

type (
	// RefreshingEvent is emitted when a pipeline run starts.
	RefreshingEvent struct {
		RunID string
		Force bool
	}

	// SnapshotEvent is emitted when a pipeline run completes.
	SnapshotEvent struct {
		Snapshot models.Snapshot
	}

	// SuggestionsEvent is emitted when suggestions are rebuilt for new base text.
	SuggestionsEvent struct {
		Suggestions models.Suggestions
	}

	// AlertEvent is emitted on every run that lands in a best upload hour.
	AlertEvent struct {
		BestHours []models.HourCount
		Hour      int
	}

	// StopWordsReloadedEvent is emitted when the local stop-word file changes.
	StopWordsReloadedEvent struct {
		Count int
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (RefreshingEvent) isServiceEvent()        {}
func (SnapshotEvent) isServiceEvent()          {}
func (SuggestionsEvent) isServiceEvent()       {}
func (AlertEvent) isServiceEvent()             {}
func (StopWordsReloadedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()             {}

// Notifier shows a desktop alert.
type Notifier func(title, message string) error

func desktopAlert(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Manager runs the trending pipeline and routes its results to subscribers.
type Manager struct {
	cfg         *config.Config
	client      *youtube.Client
	fetcher     *youtube.Fetcher
	stopWords   *stopwords.Provider
	historian   *historian.Historian
	database    *db.DB
	notify      Notifier
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	last        *models.Snapshot
	base        string
	policy      analyzer.HookPolicy
	mu          sync.RWMutex
	runMu       sync.Mutex
	closeOnce   sync.Once
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	client := youtube.NewClient(youtube.ClientConfig{
		APIKey:  cfg.APIKey,
		Timeout: cfg.HTTPTimeout,
	})

	m, err := newManager(cfg, client, desktopAlert)
	if err != nil {
		return nil, err
	}
	m.client = client
	return m, nil
}

func newManager(cfg *config.Config, lister youtube.Lister, notify Notifier) (*Manager, error) {
	policy, err := analyzer.PolicyFor(cfg.HookPolicy)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := &Manager{
		cfg:       cfg,
		database:  database,
		notify:    notify,
		policy:    policy,
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		historian: historian.New(database, cfg.Location()),
		fetcher: youtube.NewFetcher(lister, youtube.FetcherConfig{
			Region:          cfg.RegionCode,
			MaxResults:      cfg.MaxResults,
			RefreshInterval: cfg.RefreshInterval,
		}),
	}

	m.stopWords = stopwords.NewProvider(stopwords.ProviderConfig{
		URL:        cfg.StopwordsURL,
		Path:       cfg.StopwordsPath,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		OnReload: func(set stopwords.Set) {
			m.broadcast(StopWordsReloadedEvent{Count: set.Len()})
		},
	})

	m.importLegacy(context.Background())

	return m, nil
}

// importLegacy pulls the flat history file into the store on first start.
func (m *Manager) importLegacy(ctx context.Context) {
	if m.cfg.LegacyHistoryPath == "" {
		return
	}
	n, err := m.ImportLegacy(ctx, m.cfg.LegacyHistoryPath)
	if err != nil {
		logger.Warn("failed to import legacy upload history", "path", m.cfg.LegacyHistoryPath, "error", err)
		return
	}
	if n > 0 {
		logger.Info("imported legacy upload history", "path", m.cfg.LegacyHistoryPath, "samples", n)
	}
}

// Run executes one pass of the pipeline: fetch, analyze, rank hours,
// suggest, record and broadcast. Runs never overlap. Upstream failures
// degrade to an empty batch and are reported through ErrorEvent.
func (m *Manager) Run(ctx context.Context, force bool) (models.Snapshot, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	runID := uuid.NewString()
	m.broadcast(RefreshingEvent{RunID: runID, Force: force})

	if force {
		m.fetcher.Invalidate()
	}

	var (
		batch models.Batch
		stop  stopwords.Set
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		batch = m.fetcher.Fetch(gctx)
		return nil
	})
	g.Go(func() error {
		stop = m.stopWords.Words(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Snapshot{}, err
	}

	batch.RunID = runID
	if batch.Err != nil {
		m.broadcast(ErrorEvent{Service: "youtube", Error: batch.Err})
	}

	analysis := analyzer.New(stop, m.policy).Analyze(batch.Items)

	insight, err := m.rankHours(ctx, batch)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "history", Error: err})
	}

	m.mu.RLock()
	base := m.base
	m.mu.RUnlock()

	snap := models.Snapshot{
		Batch:       batch,
		Analysis:    analysis,
		Suggestions: suggest.Suggest(base, analysis),
		Hours:       insight,
	}

	m.recordRun(ctx, batch)
	if runs, err := m.database.RecentFetchRuns(ctx, recentRunsLimit); err == nil {
		snap.RecentRuns = runs
	} else {
		logger.Error("failed to load recent fetch runs", "error", err)
	}

	snap.WordCloud = m.writeWordCloud(analysis.Keywords)

	if insight.AlertActive {
		m.alert(insight)
	}

	m.mu.Lock()
	m.last = &snap
	m.mu.Unlock()

	logger.Info("pipeline run complete",
		"run_id", runID,
		"items", len(batch.Items),
		"cached", batch.Cached,
		"hooks", len(analysis.Hooks),
		"alert", insight.AlertActive,
	)

	m.broadcast(SnapshotEvent{Snapshot: snap})
	return snap, nil
}

// rankHours records a fresh batch's upload hours and ranks the history.
// A cached batch was recorded when it was fetched, so it is only ranked.
func (m *Manager) rankHours(ctx context.Context, batch models.Batch) (models.HourInsight, error) {
	if !batch.Cached {
		return m.historian.ComputeBestHours(ctx, batch.RunID, batch.Items)
	}
	insight, err := m.historian.Insight(ctx)
	insight.BatchHours = historian.HoursOf(batch.Items, m.historian.Location())
	return insight, err
}

func (m *Manager) recordRun(ctx context.Context, batch models.Batch) {
	run := models.FetchRun{
		RunID:     batch.RunID,
		Region:    batch.Region,
		FetchedAt: time.Now(),
		ItemCount: len(batch.Items),
		Cached:    batch.Cached,
	}
	if batch.Err != nil {
		run.Error = batch.Err.Error()
	}
	if err := m.database.InsertFetchRun(ctx, run); err != nil {
		logger.Error("failed to record fetch run", "run_id", batch.RunID, "error", err)
	}
}

func (m *Manager) writeWordCloud(keywords []models.KeywordCount) string {
	if m.cfg.WordCloudPath == "" || len(keywords) == 0 {
		return ""
	}
	img := wordcloud.Render(keywords, wordCloudWidth, wordCloudHeight)
	if err := wordcloud.WritePNG(m.cfg.WordCloudPath, img); err != nil {
		logger.Error("failed to write word cloud", "path", m.cfg.WordCloudPath, "error", err)
		m.broadcast(ErrorEvent{Service: "wordcloud", Error: err})
		return ""
	}
	return m.cfg.WordCloudPath
}

// alert fires on every run inside a best hour; there is no debounce.
func (m *Manager) alert(insight models.HourInsight) {
	m.broadcast(AlertEvent{Hour: insight.CurrentHour, BestHours: insight.BestHours})

	if !m.cfg.AlertsEnabled || m.notify == nil {
		return
	}
	title := "Peak upload hour"
	body := fmt.Sprintf("%02d:00 is one of the best hours to upload in %s", insight.CurrentHour, m.cfg.RegionCode)
	if err := m.notify(title, body); err != nil {
		logger.Warn("failed to send desktop alert", "error", err)
	}
}

// Suggest rebuilds suggestions for new base text from the last analysis.
func (m *Manager) Suggest(base string) models.Suggestions {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.base = base
	var analysis models.Analysis
	if m.last != nil {
		analysis = m.last.Analysis
	}

	s := suggest.Suggest(base, analysis)
	if m.last != nil {
		m.last.Suggestions = s
	}
	return s
}

// StartPolling re-runs the pipeline every refresh interval until ctx is
// done or the manager is closed. Every tick bypasses the batch cache.
func (m *Manager) StartPolling(ctx context.Context) {
	go m.poll(ctx)
}

func (m *Manager) poll(ctx context.Context) {
	ticker := time.NewTicker(m.fetcher.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.Run(ctx, true); err != nil && !errors.Is(err, context.Canceled) {
				m.broadcast(ErrorEvent{Service: "pipeline", Error: err})
			}
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		}
	}
}

// Compact drops raw hour samples older than the retention window.
func (m *Manager) Compact(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-m.cfg.HistoryRetention)
	n, err := m.database.Compact(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("compacted upload history", "removed", n, "cutoff", cutoff)
	if n > 0 {
		if err := m.database.Vacuum(ctx); err != nil {
			logger.Warn("failed to vacuum history store", "error", err)
		}
	}
	return n, nil
}

// ImportLegacy loads a flat history file into the store once.
func (m *Manager) ImportLegacy(ctx context.Context, path string) (int, error) {
	hours, err := historian.LoadLegacyFile(path)
	if err != nil {
		return 0, err
	}
	if len(hours) == 0 {
		return 0, nil
	}
	return m.database.ImportLegacyHours(ctx, hours, time.Now())
}

// ExportLegacy writes the accumulated history as a flat JSON file.
func (m *Manager) ExportLegacy(ctx context.Context, path string) (int, error) {
	seq, err := m.database.HourSequence(ctx)
	if err != nil {
		return 0, err
	}
	if err := historian.SaveLegacyFile(path, seq); err != nil {
		return 0, err
	}
	return len(seq), nil
}

// HourDistribution returns the distribution for a display range.
func (m *Manager) HourDistribution(ctx context.Context, tr models.TimeRange) ([models.HoursPerDay]int, error) {
	return m.database.HourDistributionSince(ctx, tr.Since(time.Now()))
}

// StoreStats summarizes the history store.
func (m *Manager) StoreStats(ctx context.Context) (models.StoreStats, error) {
	return m.database.Stats(ctx)
}

// HistoryState reports whether any upload hour has been recorded.
func (m *Manager) HistoryState(ctx context.Context) (historian.State, error) {
	return m.historian.State(ctx)
}

// LastSnapshot returns the result of the most recent run.
func (m *Manager) LastSnapshot() (models.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return models.Snapshot{}, false
	}
	return *m.last, true
}

// StopWordSource reports where the active stop-word list came from.
func (m *Manager) StopWordSource() stopwords.Source {
	return m.stopWords.Source()
}

// BreakerOpen reports whether upstream calls are short-circuited.
func (m *Manager) BreakerOpen() bool {
	return m.client != nil && m.client.BreakerOpen()
}

// Status reports the state of the services behind the pipeline.
func (m *Manager) Status(ctx context.Context) models.ServiceStatus {
	status := models.ServiceStatus{
		StopWords:   m.StopWordSource().String(),
		HookPolicy:  m.policy.Version,
		History:     historian.StateEmpty.String(),
		BreakerOpen: m.BreakerOpen(),
	}
	if hs, err := m.HistoryState(ctx); err == nil {
		status.History = hs.String()
	} else {
		logger.Warn("failed to read history state", "error", err)
	}
	if at, ok := m.fetcher.LastFetched(); ok {
		status.CacheExpires = at.Add(m.fetcher.RefreshInterval())
	}
	return status
}

// Policy returns the active hook policy.
func (m *Manager) Policy() analyzer.HookPolicy {
	return m.policy
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd that waits for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.stopWords.Close(); err != nil {
			errs = append(errs, err)
		}
		if m.database != nil {
			if err := m.database.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
