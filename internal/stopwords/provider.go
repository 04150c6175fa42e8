package stopwords

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
)

// Source identifies where the active stop-word set came from.
type Source int

const (
	// SourceBuiltin is the compiled-in fallback list.
	SourceBuiltin Source = iota
	// SourceFile is the local override file.
	SourceFile
	// SourceRemote is the downloaded list.
	SourceRemote
)

// String returns the display name for a source.
func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceRemote:
		return "remote"
	default:
		return "builtin"
	}
}

// ProviderConfig holds configuration for the provider.
type ProviderConfig struct {
	HTTPClient *http.Client
	// OnReload is called after the local file was reloaded.
	OnReload func(Set)
	URL      string
	Path     string
}

// Provider serves the current stop-word set. A configured local file wins
// and is hot reloaded; otherwise the remote list is fetched once and kept.
type Provider struct {
	set           Set
	watcher       *fsnotify.Watcher
	debounceTimer *time.Timer
	stopChan      chan struct{}
	sf            singleflight.Group
	config        ProviderConfig
	source        Source
	mu            sync.RWMutex
}

// NewProvider creates a provider. When a local path is configured its
// directory is watched for changes.
func NewProvider(config ProviderConfig) *Provider {
	p := &Provider{
		config:   config,
		stopChan: make(chan struct{}),
	}

	if config.Path == "" {
		return p
	}

	if set, err := Load(config.Path); err == nil {
		p.set = set
		p.source = SourceFile
	} else {
		logger.Warn("failed to load stop-word file", "path", config.Path, "error", err)
	}

	if err := p.startWatcher(); err != nil {
		logger.Warn("stop-word file will not be hot reloaded", "path", config.Path, "error", err)
	}
	return p
}

// Words returns the current set, loading it on first use. It never fails:
// when both the file and the remote list are unavailable the builtin list
// is returned. The download runs without holding the lock.
func (p *Provider) Words(ctx context.Context) Set {
	p.mu.RLock()
	set := p.set
	p.mu.RUnlock()
	if set != nil {
		return set
	}
	if p.config.URL == "" {
		return Builtin()
	}

	v, err, _ := p.sf.Do(p.config.URL, func() (any, error) {
		return Fetch(ctx, p.config.HTTPClient, p.config.URL)
	})
	if err != nil {
		logger.Warn("failed to fetch stop-words, using builtin list", "url", p.config.URL, "error", err)
		// The builtin list is not memoized so a later call can retry the remote.
		return Builtin()
	}
	remote := v.(Set)

	p.mu.Lock()
	defer p.mu.Unlock()
	// A file reload during the download wins.
	if p.set != nil {
		return p.set
	}
	p.set = remote
	p.source = SourceRemote
	logger.Info("loaded remote stop-words", "count", remote.Len())
	return p.set
}

// Source returns where the current set came from.
func (p *Provider) Source() Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.set == nil {
		return SourceBuiltin
	}
	return p.source
}

func (p *Provider) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	p.watcher = watcher

	// Watch the directory so editors that replace the file are seen.
	if err := watcher.Add(filepath.Dir(p.config.Path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		p.watcher = nil
		return err
	}

	go p.watchLoop()
	return nil
}

func (p *Provider) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(p.config.Path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				p.mu.Lock()
				if p.debounceTimer != nil {
					p.debounceTimer.Stop()
				}
				p.debounceTimer = time.AfterFunc(debounceInterval, p.reload)
				p.mu.Unlock()
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("stop-word watcher error", "error", err)

		case <-p.stopChan:
			return
		}
	}
}

func (p *Provider) reload() {
	set, err := Load(p.config.Path)
	if err != nil {
		logger.Warn("failed to reload stop-word file", "path", p.config.Path, "error", err)
		return
	}

	p.mu.Lock()
	p.set = set
	p.source = SourceFile
	onReload := p.config.OnReload
	p.mu.Unlock()

	logger.Info("reloaded stop-word file", "path", p.config.Path, "count", set.Len())
	if onReload != nil {
		onReload(set)
	}
}

// Close stops the file watcher.
func (p *Provider) Close() error {
	close(p.stopChan)

	p.mu.Lock()
	if p.debounceTimer != nil {
		p.debounceTimer.Stop()
	}
	p.mu.Unlock()

	if p.watcher != nil {
		return p.watcher.Close()
	}
	return nil
}
