package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/trending-dashboard-tui/internal/config"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
	"github.com/j-veylop/trending-dashboard-tui/internal/stopwords"
)

type fakeLister struct {
	err   error
	items []models.TrendingItem
	mu    sync.Mutex
	calls int
}

func (f *fakeLister) ListTrending(_ context.Context, _ string, _ int) ([]models.TrendingItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingNotifier) notify(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		RegionCode:       "IN",
		MaxResults:       50,
		RefreshInterval:  time.Hour,
		HTTPTimeout:      time.Second,
		DatabasePath:     filepath.Join(dir, "history.db"),
		WordCloudPath:    filepath.Join(dir, "cloud.png"),
		Timezone:         "UTC",
		HookPolicy:       "v2",
		HistoryRetention: 24 * time.Hour,
		AlertsEnabled:    true,
	}
}

func trendingItems(published time.Time) []models.TrendingItem {
	return []models.TrendingItem{
		{
			ID:          "a",
			Title:       "Cricket Final Highlights | Last Over Thriller",
			Description: "#cricket #shorts",
			PublishedAt: published,
		},
		{
			ID:          "b",
			Title:       "Cricket Legends Reunite | Watch Till The End",
			Description: "#cricket",
			PublishedAt: published,
		},
	}
}

func newTestManager(t *testing.T, cfg *config.Config, lister *fakeLister, n *recordingNotifier) *Manager {
	t.Helper()
	mgr, err := newManager(cfg, lister, n.notify)
	if err != nil {
		t.Fatalf("newManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func TestNewManager(t *testing.T) {
	cfg := testConfig(t)
	cfg.APIKey = "key"

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Policy().Version != "v2" {
		t.Errorf("Policy().Version = %q, want v2", mgr.Policy().Version)
	}
	if mgr.BreakerOpen() {
		t.Error("breaker should start closed")
	}
	if mgr.StopWordSource() != stopwords.SourceBuiltin {
		t.Errorf("StopWordSource() = %v, want builtin", mgr.StopWordSource())
	}
	if _, ok := mgr.LastSnapshot(); ok {
		t.Error("LastSnapshot should be empty before the first run")
	}
}

func TestNewManager_UnknownPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.HookPolicy = "v9"

	if _, err := newManager(cfg, &fakeLister{}, nil); err == nil {
		t.Fatal("expected error for unknown hook policy")
	}
}

func TestManager_Run(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{items: trendingItems(time.Now().UTC())}
	notifier := &recordingNotifier{}
	mgr := newTestManager(t, cfg, lister, notifier)

	snap, err := mgr.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if snap.Batch.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(snap.Batch.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(snap.Batch.Items))
	}
	if len(snap.Analysis.Hashtags) == 0 || snap.Analysis.Hashtags[0].Tag != "#cricket" {
		t.Errorf("Hashtags = %v, want #cricket first", snap.Analysis.Hashtags)
	}
	if len(snap.Analysis.Hooks) == 0 {
		t.Error("expected hooks to be extracted")
	}
	if len(snap.Suggestions.Titles) != 0 {
		t.Error("no titles should be generated without base text")
	}
	if snap.Hours.TotalSamples != 2 {
		t.Errorf("TotalSamples = %d, want 2", snap.Hours.TotalSamples)
	}
	if !snap.Hours.AlertActive {
		t.Error("alert should be active when items were published this hour")
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.count())
	}
	if len(snap.RecentRuns) != 1 || snap.RecentRuns[0].RunID != snap.Batch.RunID {
		t.Errorf("RecentRuns = %+v, want the current run", snap.RecentRuns)
	}
	if snap.WordCloud == "" {
		t.Fatal("word cloud path should be set")
	}
	if _, err := os.Stat(snap.WordCloud); err != nil {
		t.Errorf("word cloud not written: %v", err)
	}

	last, ok := mgr.LastSnapshot()
	if !ok || last.Batch.RunID != snap.Batch.RunID {
		t.Error("LastSnapshot should return the latest run")
	}
}

func TestManager_RunReusesCachedBatchAndAlertsEveryRun(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{items: trendingItems(time.Now().UTC())}
	notifier := &recordingNotifier{}
	mgr := newTestManager(t, cfg, lister, notifier)

	ctx := context.Background()
	if _, err := mgr.Run(ctx, false); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := mgr.Run(ctx, false)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if lister.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", lister.calls)
	}
	if !second.Batch.Cached {
		t.Error("second batch should be served from cache")
	}
	// A cached batch is ranked but not recorded again.
	if second.Hours.TotalSamples != 2 {
		t.Errorf("TotalSamples = %d, want 2", second.Hours.TotalSamples)
	}
	if len(second.Hours.BatchHours) != 2 {
		t.Errorf("BatchHours = %v, want the cached batch's hours", second.Hours.BatchHours)
	}
	if notifier.count() != 2 {
		t.Errorf("notifications = %d, want 2", notifier.count())
	}

	if _, err := mgr.Run(ctx, true); err != nil {
		t.Fatalf("forced Run failed: %v", err)
	}
	if lister.calls != 2 {
		t.Errorf("upstream calls after force = %d, want 2", lister.calls)
	}
}

func TestManager_PollingFetchesFreshEveryTick(t *testing.T) {
	cfg := testConfig(t)
	cfg.RefreshInterval = 50 * time.Millisecond
	lister := &fakeLister{items: trendingItems(time.Now().UTC())}
	mgr := newTestManager(t, cfg, lister, &recordingNotifier{})

	ch, _ := mgr.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the cache the way the TUI does before polling starts.
	if _, err := mgr.Run(ctx, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	mgr.StartPolling(ctx)

	var polled []models.Snapshot
	timeout := time.After(5 * time.Second)
	for len(polled) < 3 {
		select {
		case ev := <-ch:
			if e, ok := ev.(SnapshotEvent); ok {
				polled = append(polled, e.Snapshot)
			}
		case <-timeout:
			t.Fatalf("got %d snapshots before timeout", len(polled))
		}
	}
	cancel()
	// Let an in-flight run finish before the temp dir is removed.
	mgr.runMu.Lock()
	mgr.runMu.Unlock()

	// polled[0] is the seeding run.
	for i, snap := range polled {
		if snap.Batch.Cached {
			t.Errorf("snapshot %d served from cache", i)
		}
		if want := 2 * (i + 1); snap.Hours.TotalSamples != want {
			t.Errorf("snapshot %d TotalSamples = %d, want %d", i, snap.Hours.TotalSamples, want)
		}
	}
}

func TestManager_RunFetchFailure(t *testing.T) {
	cfg := testConfig(t)
	lister := &fakeLister{err: errors.New("quota exceeded")}
	mgr := newTestManager(t, cfg, lister, &recordingNotifier{})

	ch, _ := mgr.Subscribe()

	snap, err := mgr.Run(context.Background(), false)
	if err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if snap.Batch.Err == nil {
		t.Error("batch should carry the fetch error")
	}
	if len(snap.Analysis.Hashtags) != 0 || len(snap.Analysis.Keywords) != 0 || len(snap.Analysis.Hooks) != 0 {
		t.Errorf("analysis should be empty, got %+v", snap.Analysis)
	}
	if snap.WordCloud != "" {
		t.Error("no word cloud should be written for an empty batch")
	}
	if len(snap.RecentRuns) != 1 || !snap.RecentRuns[0].Failed() {
		t.Errorf("failed run should be recorded, got %+v", snap.RecentRuns)
	}

	var sawError bool
	for len(ch) > 0 {
		if e, ok := (<-ch).(ErrorEvent); ok && e.Service == "youtube" {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected a youtube ErrorEvent")
	}
}

func TestManager_AlertsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.AlertsEnabled = false
	notifier := &recordingNotifier{}
	mgr := newTestManager(t, cfg, &fakeLister{items: trendingItems(time.Now().UTC())}, notifier)

	ch, _ := mgr.Subscribe()
	if _, err := mgr.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if notifier.count() != 0 {
		t.Errorf("notifications = %d, want 0", notifier.count())
	}

	var sawAlert bool
	for len(ch) > 0 {
		if _, ok := (<-ch).(AlertEvent); ok {
			sawAlert = true
		}
	}
	if !sawAlert {
		t.Error("AlertEvent should still reach subscribers")
	}
}

func TestManager_Suggest(t *testing.T) {
	cfg := testConfig(t)
	mgr := newTestManager(t, cfg, &fakeLister{items: trendingItems(time.Now().UTC())}, &recordingNotifier{})

	if s := mgr.Suggest("My video"); len(s.Titles) == 0 {
		t.Error("fallback titles expected before any run")
	}

	if _, err := mgr.Run(context.Background(), false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s := mgr.Suggest("My video")
	if s.Base != "My video" {
		t.Errorf("Base = %q, want %q", s.Base, "My video")
	}
	if len(s.Hashtags) == 0 || s.Hashtags[0] != "#shorts" {
		t.Errorf("Hashtags = %v, want base hashtags first", s.Hashtags)
	}

	last, _ := mgr.LastSnapshot()
	if last.Suggestions.Base != "My video" {
		t.Error("LastSnapshot should carry the rebuilt suggestions")
	}

	if s := mgr.Suggest(""); len(s.Titles) != 0 {
		t.Error("empty base text should yield no titles")
	}
}

func TestManager_LegacyRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	legacy := filepath.Join(t.TempDir(), "upload_history.json")
	if err := os.WriteFile(legacy, []byte("[9, 9, 15]"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.LegacyHistoryPath = legacy

	mgr := newTestManager(t, cfg, &fakeLister{}, &recordingNotifier{})
	ctx := context.Background()

	stats, err := mgr.StoreStats(ctx)
	if err != nil {
		t.Fatalf("StoreStats failed: %v", err)
	}
	if stats.TotalSamples != 3 {
		t.Errorf("TotalSamples after startup import = %d, want 3", stats.TotalSamples)
	}

	// A second import is a no-op.
	n, err := mgr.ImportLegacy(ctx, legacy)
	if err != nil {
		t.Fatalf("ImportLegacy failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second import = %d, want 0", n)
	}

	out := filepath.Join(t.TempDir(), "export.json")
	n, err = mgr.ExportLegacy(ctx, out)
	if err != nil {
		t.Fatalf("ExportLegacy failed: %v", err)
	}
	if n != 3 {
		t.Errorf("exported = %d, want 3", n)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[9,9,15]" && string(data) != "[9,9,15]\n" {
		t.Errorf("export = %s, want [9,9,15]", data)
	}
}

func TestManager_HistoryViews(t *testing.T) {
	cfg := testConfig(t)
	published := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)
	mgr := newTestManager(t, cfg, &fakeLister{items: trendingItems(published)}, &recordingNotifier{})
	ctx := context.Background()

	state, err := mgr.HistoryState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.String() != "empty" {
		t.Errorf("state = %v, want empty", state)
	}

	if _, err := mgr.Run(ctx, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dist, err := mgr.HourDistribution(ctx, models.TimeRangeAllTime)
	if err != nil {
		t.Fatalf("HourDistribution failed: %v", err)
	}
	if dist[11] != 2 {
		t.Errorf("dist[11] = %d, want 2", dist[11])
	}

	// Recorded just now, so nothing is older than the retention window.
	removed, err := mgr.Compact(ctx)
	if err != nil {
		t.Fatalf("Compact failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestManager_Status(t *testing.T) {
	cfg := testConfig(t)
	cfg.HookPolicy = "v1"
	published := time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC)
	mgr := newTestManager(t, cfg, &fakeLister{items: trendingItems(published)}, &recordingNotifier{})
	ctx := context.Background()

	st := mgr.Status(ctx)
	if st.HookPolicy != "v1" {
		t.Errorf("HookPolicy = %q, want v1", st.HookPolicy)
	}
	if st.History != "empty" {
		t.Errorf("History = %q, want empty", st.History)
	}
	if !st.CacheExpires.IsZero() {
		t.Error("nothing cached before the first run")
	}
	if st.BreakerOpen {
		t.Error("breaker should be closed without a client")
	}

	if _, err := mgr.Run(ctx, false); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	st = mgr.Status(ctx)
	if st.History != "populated" {
		t.Errorf("History = %q, want populated", st.History)
	}
	if st.StopWords != "builtin" {
		t.Errorf("StopWords = %q, want builtin", st.StopWords)
	}
	if until := time.Until(st.CacheExpires); until <= 0 || until > cfg.RefreshInterval {
		t.Errorf("CacheExpires %v not within the refresh interval", st.CacheExpires)
	}
}

func TestManager_Subscription(t *testing.T) {
	cfg := testConfig(t)
	mgr := newTestManager(t, cfg, &fakeLister{}, &recordingNotifier{})

	ch, cmd := mgr.Subscribe()
	if cmd == nil {
		t.Fatal("Subscribe should return a command")
	}

	mgr.broadcast(ErrorEvent{Service: "test", Error: errors.New("boom")})

	msg := cmd()
	ev, ok := msg.(ErrorEvent)
	if !ok || ev.Service != "test" {
		t.Errorf("got %T %v, want ErrorEvent from test", msg, msg)
	}

	mgr.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestManager_CloseIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	mgr, err := newManager(cfg, &fakeLister{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
