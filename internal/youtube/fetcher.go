package youtube

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// Lister is the upstream call the fetcher caches.
type Lister interface {
	ListTrending(ctx context.Context, region string, maxResults int) ([]models.TrendingItem, error)
}

// FetcherConfig holds configuration for the fetcher.
type FetcherConfig struct {
	Region          string
	MaxResults      int
	RefreshInterval time.Duration
}

type cachedBatch struct {
	fetchedAt time.Time
	items     []models.TrendingItem
}

// Fetcher reuses the last successful batch for a region until the refresh
// interval has elapsed. Failures are never cached.
type Fetcher struct {
	lister  Lister
	now     func() time.Time
	entries map[string]cachedBatch
	sf      singleflight.Group
	config  FetcherConfig
	mu      sync.RWMutex
}

// NewFetcher creates a fetcher around a lister.
func NewFetcher(lister Lister, config FetcherConfig) *Fetcher {
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = time.Hour
	}
	return &Fetcher{
		lister:  lister,
		now:     time.Now,
		entries: make(map[string]cachedBatch),
		config:  config,
	}
}

// RefreshInterval returns how long a fetched batch is reused.
func (f *Fetcher) RefreshInterval() time.Duration {
	return f.config.RefreshInterval
}

// Region returns the configured region code.
func (f *Fetcher) Region() string {
	return f.config.Region
}

// Fetch returns the trending batch for the configured region. On upstream
// failure it returns an empty batch with Err set; the error is not returned
// separately so callers always get a usable batch.
func (f *Fetcher) Fetch(ctx context.Context) models.Batch {
	region := f.config.Region
	now := f.now()

	f.mu.RLock()
	entry, ok := f.entries[region]
	f.mu.RUnlock()

	if ok && now.Sub(entry.fetchedAt) < f.config.RefreshInterval {
		logger.Debug("reusing cached trending batch", "region", region, "age", now.Sub(entry.fetchedAt))
		return models.Batch{
			Region:    region,
			FetchedAt: entry.fetchedAt,
			Items:     entry.items,
			Cached:    true,
		}
	}

	result, err, _ := f.sf.Do(region, func() (any, error) {
		items, err := f.lister.ListTrending(ctx, region, f.config.MaxResults)
		if err != nil {
			return nil, err
		}
		fetchedAt := f.now()
		f.mu.Lock()
		f.entries[region] = cachedBatch{fetchedAt: fetchedAt, items: items}
		f.mu.Unlock()
		return cachedBatch{fetchedAt: fetchedAt, items: items}, nil
	})
	if err != nil {
		logger.Error("failed to fetch trending videos", "region", region, "error", err)
		return models.Batch{Region: region, FetchedAt: now, Err: err}
	}

	fresh := result.(cachedBatch)
	return models.Batch{
		Region:    region,
		FetchedAt: fresh.fetchedAt,
		Items:     fresh.items,
	}
}

// Invalidate drops the cached batch so the next Fetch goes upstream.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.entries)
}

// LastFetched returns when the cached batch was fetched, if any.
func (f *Fetcher) LastFetched() (time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	entry, ok := f.entries[f.config.Region]
	return entry.fetchedAt, ok
}
