package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a rule set file and triggers reloads when it changes.
// The parent directory is watched so editors that replace the file on save
// are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *FileWatcherConfig
	debounce *Debouncer

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// FileWatcherConfig contains configuration for the file watcher.
type FileWatcherConfig struct {
	// Path is the rule set file to watch.
	Path string

	// DebounceInterval is the quiet period before a reload is triggered
	// (default: 100ms).
	DebounceInterval time.Duration
}

// DefaultFileWatcherConfig returns the default watcher configuration.
func DefaultFileWatcherConfig() *FileWatcherConfig {
	return &FileWatcherConfig{
		DebounceInterval: 100 * time.Millisecond,
	}
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(config *FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil {
		config = DefaultFileWatcherConfig()
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = DefaultFileWatcherConfig().DebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger.With("component", "rule.watcher"),
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks until ctx is cancelled or Stop is called, calling onReload
// after the file settles following a change. Reload errors are logged and
// watching continues. Watch releases the fsnotify watcher on return and can
// only be called once.
func (fw *FileWatcher) Watch(ctx context.Context, onReload func() error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.debounce.Stop()
		fw.watcher.Close()
		close(fw.doneCh)
	}()

	target, err := filepath.Abs(fw.config.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := fw.watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	fw.logger.Info("File watcher started",
		"path", target,
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("File watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !shouldProcessEvent(event, target) {
				continue
			}

			fw.logger.Debug("File event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			fw.debounce.Trigger(func() {
				fw.logger.Info("Triggering rule set reload", "path", target)
				if err := onReload(); err != nil {
					fw.logger.Error("Rule set reload failed", "error", err)
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

// Stop signals Watch to return and waits for it. Calling Stop on a watcher
// that never started releases its resources.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	if !running {
		fw.running = true
	}
	fw.mu.Unlock()

	if !running {
		fw.debounce.Stop()
		return fw.watcher.Close()
	}

	fw.stopOnce.Do(func() { close(fw.stopCh) })
	<-fw.doneCh
	return nil
}

func shouldProcessEvent(event fsnotify.Event, target string) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == target
}

// Debouncer collects rapid events and runs the latest callback once after a
// quiet period.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback to run after the interval, replacing any
// pending callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.callback = callback
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		cb := d.callback
		if d.stopped {
			cb = nil
		}
		d.callback = nil
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
