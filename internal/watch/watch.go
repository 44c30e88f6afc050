// Package watch re-runs recovery when message store files appear or
// change in a set of directories.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/stlalpha/gbbsrecover/internal/logging"
)

const DefaultDebounce = 500 * time.Millisecond

var ErrNoDirs = errors.New("watch: no directories to watch")

// Handler processes one store file. Calls are serialised.
type Handler func(path string)

// Options configure a Watcher.
type Options struct {
	Dirs     []string
	Pattern  string        // Base-name glob; empty matches every file
	Debounce time.Duration // Quiet period after the last write; 0 uses DefaultDebounce
	Schedule string        // Optional cron spec (with seconds) for periodic resweeps
}

// Watcher feeds changed store files to a Handler.
type Watcher struct {
	opts    Options
	handler Handler

	runMu sync.Mutex // Serialises handler calls
	seen  map[string]time.Time

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cron    *cron.Cron
	timers  map[string]*time.Timer
	done    chan struct{}
}

// New validates opts and returns a stopped Watcher.
func New(opts Options, handler Handler) (*Watcher, error) {
	if len(opts.Dirs) == 0 {
		return nil, ErrNoDirs
	}
	if opts.Pattern != "" {
		if _, err := filepath.Match(opts.Pattern, ""); err != nil {
			return nil, fmt.Errorf("watch: bad pattern %q: %w", opts.Pattern, err)
		}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		opts:    opts,
		handler: handler,
		seen:    make(map[string]time.Time),
		timers:  make(map[string]*time.Timer),
	}, nil
}

// Start begins watching. The watcher stops when ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: failed to create file watcher: %w", err)
	}
	for _, dir := range w.opts.Dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("watch: failed to watch %s: %w", dir, err)
		}
		log.Printf("INFO: Watching %s for message store changes", dir)
	}

	var c *cron.Cron
	if w.opts.Schedule != "" {
		c = cron.New(cron.WithSeconds())
		if _, err := c.AddFunc(w.opts.Schedule, w.Sweep); err != nil {
			fw.Close()
			return fmt.Errorf("watch: bad schedule %q: %w", w.opts.Schedule, err)
		}
		c.Start()
		log.Printf("INFO: Resweep scheduled: %s", w.opts.Schedule)
	}

	w.mu.Lock()
	w.watcher = fw
	w.cron = c
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go w.watchLoop(fw, done)
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-done:
		}
	}()
	return nil
}

// Stop stops watching and waits for a running handler to finish. Pending
// debounced events are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.watcher == nil {
		w.mu.Unlock()
		return
	}
	close(w.done)
	w.watcher.Close()
	w.watcher = nil
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	w.runMu.Lock()
	w.runMu.Unlock()
	log.Printf("INFO: Message store watcher stopped")
}

func (w *Watcher) watchLoop(fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Printf("ERROR: Message store watcher error: %v", err)

		case <-done:
			return
		}
	}
}

// schedule (re)starts the debounce timer for path. Each file has its own
// timer so a burst of writes to one store doesn't delay another.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		stopped := w.watcher == nil
		w.mu.Unlock()
		if !stopped {
			w.run(path, true)
		}
	})
}

// Sweep runs the handler over every matching file in the watched
// directories that changed since it was last handled.
func (w *Watcher) Sweep() {
	for _, dir := range w.opts.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("WARN: Failed to read %s: %v", dir, err)
			continue
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if w.matches(path) {
				w.run(path, false)
			}
		}
	}
}

// run calls the handler for path. Unless forced, a file whose
// modification time hasn't changed since its last run is skipped.
func (w *Watcher) run(path string, force bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		logging.Debug("watch: skipping %s: %v", path, err)
		return
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()
	if last, ok := w.seen[path]; ok && !force && last.Equal(info.ModTime()) {
		return
	}
	w.seen[path] = info.ModTime()
	log.Printf("INFO: Message store change detected: %s", path)
	w.handler(path)
}

func (w *Watcher) matches(path string) bool {
	if w.opts.Pattern == "" {
		return true
	}
	ok, _ := filepath.Match(w.opts.Pattern, filepath.Base(path))
	return ok
}
