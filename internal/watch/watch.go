package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is a wrapper around fsnotify.Event
type Event struct {
	Name string
	Op   fsnotify.Op
}

// Watcher handles filesystem events and triggers builds
type Watcher struct {
	watcher  *fsnotify.Watcher
	Dirs     []string
	Debounce time.Duration
	OnEvent  func(Event)
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a new watcher for the specified directories. OnEvent fires
// once per burst of changes, with the last event of the burst.
func New(dirs []string, debounce time.Duration, onEvent func(Event), logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		watcher:  w,
		Dirs:     dirs,
		Debounce: debounce,
		OnEvent:  onEvent,
		logger:   logger,
	}, nil
}

// Add registers the directories recursively. Missing directories are
// skipped, as are hidden ones like .git.
func (w *Watcher) Add() error {
	for _, dir := range w.Dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if path != dir && filepath.Base(path)[0] == '.' {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Start begins watching for events and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	defer func() { _ = w.watcher.Close() }()
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Ignore chmod and other meta events
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			// Handle new directories
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					_ = w.watcher.Add(event.Name)
				}
			}
			w.schedule(Event{Name: event.Name, Op: event.Op})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.Debounce, func() { w.OnEvent(ev) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
