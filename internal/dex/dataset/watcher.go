package dataset

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures dataset file watching.
type WatcherConfig struct {
	// Debounce collapses bursts of file events into one reload.
	// Default: 500ms
	Debounce time.Duration

	// PollInterval is a backup modification-time check in case file events
	// are missed. Zero disables polling.
	PollInterval time.Duration
}

// DefaultWatcherConfig returns sensible defaults.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		Debounce:     500 * time.Millisecond,
		PollInterval: 10 * time.Second,
	}
}

// Watcher reloads game snapshots in a Store when their data files change.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	debounce time.Duration
	poll     time.Duration

	mu       sync.Mutex
	dirs     map[string]string // data dir -> game
	modTimes map[string]time.Time
	timers   map[string]*time.Timer

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for the store. Call Watch for each game and
// Start to begin processing events.
func NewWatcher(store *Store, cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultWatcherConfig().Debounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:    store,
		fsw:      fsw,
		debounce: cfg.Debounce,
		poll:     cfg.PollInterval,
		dirs:     make(map[string]string),
		modTimes: make(map[string]time.Time),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Watch starts watching a game's data directory.
func (w *Watcher) Watch(game string) error {
	dir := w.store.Loader().DataDir(game)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dirs[dir] = game
	w.modTimes[game] = latestModTime(dir)
	log.Printf("[Watcher] Watching %s", dir)
	return nil
}

// Start processes file events until Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}

	w.mu.Lock()
	for game, t := range w.timers {
		t.Stop()
		delete(w.timers, game)
	}
	w.mu.Unlock()

	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var tick <-chan time.Time
	if w.poll > 0 {
		ticker := time.NewTicker(w.poll)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			switch filepath.Ext(event.Name) {
			case ".json", ".yaml", ".yml":
			default:
				continue
			}
			w.mu.Lock()
			game, ok := w.dirs[filepath.Dir(event.Name)]
			w.mu.Unlock()
			if ok {
				w.schedule(game)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[Watcher] File watcher error: %v", err)

		case <-tick:
			w.checkModTimes()
		}
	}
}

// checkModTimes is the polling fallback.
func (w *Watcher) checkModTimes() {
	w.mu.Lock()
	var changed []string
	for dir, game := range w.dirs {
		if mod := latestModTime(dir); mod.After(w.modTimes[game]) {
			w.modTimes[game] = mod
			changed = append(changed, game)
		}
	}
	w.mu.Unlock()

	for _, game := range changed {
		w.schedule(game)
	}
}

func (w *Watcher) schedule(game string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[game]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[game] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, game)
		w.modTimes[game] = latestModTime(w.store.Loader().DataDir(game))
		w.mu.Unlock()

		log.Printf("[Watcher] Data changed for %s, reloading", game)
		if _, err := w.store.Reload(context.Background(), game); err != nil {
			log.Printf("[Watcher] Keeping previous snapshot for %s: %v", game, err)
		}
	})
}

func latestModTime(dir string) time.Time {
	var latest time.Time
	entries, err := os.ReadDir(dir)
	if err != nil {
		return latest
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return latest
}
