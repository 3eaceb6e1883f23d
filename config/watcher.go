package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/ClawMeter/logging"
)

// Watcher watches a configuration file and reloads it on change
type Watcher struct {
	path      string
	config    *Config
	reload    func() (*Config, error)
	onChange  func(*Config)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
	mu        sync.RWMutex
	debouncer *debouncer
}

// NewWatcher creates a watcher for path. reload rebuilds the full
// configuration; onChange receives it whenever the result differs.
func NewWatcher(path string, initial *Config, reload func() (*Config, error), onChange func(*Config)) (*Watcher, error) {
	expandedPath := ExpandPath(path)
	if expandedPath == "" {
		return nil, fmt.Errorf("no configuration file to watch")
	}
	if abs, err := filepath.Abs(expandedPath); err == nil {
		expandedPath = abs
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		path:      expandedPath,
		config:    initial,
		reload:    reload,
		onChange:  onChange,
		watcher:   fsWatcher,
		stopCh:    make(chan struct{}),
		debouncer: newDebouncer(500 * time.Millisecond),
	}, nil
}

// Start starts watching the configuration file
func (w *Watcher) Start() error {
	// editors often replace the file, so the directory is watched as well
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", dir, err)
	}

	go w.processEvents()
	logging.LogDebugf("Watching configuration file %s", w.path)
	return nil
}

// Stop stops watching the configuration file
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.debouncer.stop()
		err = w.watcher.Close()
	})
	return err
}

// Current returns the current configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// processEvents processes file system events
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.LogWarnf("config watcher error: %v", err)

		case <-w.stopCh:
			return
		}
	}
}

// handleEvent handles a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.debouncer.debounce(w.reloadConfig)
}

// reloadConfig reloads the configuration and notifies on change
func (w *Watcher) reloadConfig() {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		logging.LogWarnf("config file deleted: %s", w.path)
		return
	}

	cfg, err := w.reload()
	if err != nil {
		logging.LogWarnf("failed to reload configuration, keeping previous: %v", err)
		return
	}

	w.mu.Lock()
	old := w.config
	w.config = cfg
	w.mu.Unlock()

	if old != nil && reflect.DeepEqual(old, cfg) {
		return
	}

	logging.LogInfof("configuration reloaded from %s", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// debouncer collapses rapid successive events into one call
type debouncer struct {
	delay    time.Duration
	timer    *time.Timer
	callback func()
	mu       sync.Mutex
}

// newDebouncer creates a new debouncer
func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay: delay,
	}
}

// debounce schedules callback, cancelling any pending one
func (d *debouncer) debounce(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.callback = callback
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()
		if cb != nil {
			cb()
		}
	})
}

// stop cancels any pending call
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
