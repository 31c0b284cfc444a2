package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a configuration file for changes and reloads it.
// Reloads are debounced to absorb editor write bursts; a reload that
// fails validation is logged and dropped, keeping the last good
// configuration in effect.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// WatcherConfig contains configuration for the file watcher.
type WatcherConfig struct {
	// Path is the configuration file to watch.
	Path string

	// DebounceInterval is the time to wait after a change before
	// reloading (default: 100ms).
	DebounceInterval time.Duration
}

// NewWatcher creates a configuration file watcher.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("config watcher: path is required")
	}
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = 100 * time.Millisecond
	}

	return &Watcher{
		path:     cfg.Path,
		debounce: cfg.DebounceInterval,
		logger:   slog.Default().With("component", "config.watcher"),
	}, nil
}

// Watch blocks, reloading the file on change and invoking onReload with
// each successfully loaded configuration, until the context is
// cancelled. The containing directory is watched rather than the file
// itself so atomic rename-based saves are seen.
func (w *Watcher) Watch(ctx context.Context, onReload func(*Config)) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("config watcher: already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("config watcher: watch %q: %w", dir, err)
	}

	w.logger.Info("config watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-timerCh:
			timerCh = nil
			timer = nil
			cfg, err := LoadConfigWithEnvOverrides(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous configuration",
					"path", w.path,
					"error", err,
				)
				continue
			}
			w.logger.Info("configuration reloaded", "path", w.path)
			onReload(cfg)
		}
	}
}
