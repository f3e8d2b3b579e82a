// Package watch re-runs an export whenever a workbook is saved.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event records one save of the watched workbook and what the handler did with it.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"` // "processed", "error"
	Error     string    `json:"error,omitempty"`
}

// Handler is called after the workbook has settled following a save.
type Handler func(path string) error

// Watcher watches a single workbook file. It watches the parent directory so
// saves that replace the file (write to temp, rename over) are seen.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Handler  Handler
	Logger   *log.Logger

	mu      sync.Mutex
	events  []Event
	timer   *time.Timer
	watcher *fsnotify.Watcher

	// run serializes handler calls; pending counts scheduled and running ones.
	run     sync.Mutex
	pending sync.WaitGroup
}

// New creates a Watcher for the workbook at path.
func New(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("cannot watch %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		Path:     abs,
		Debounce: debounce,
		Handler:  handler,
		Logger:   log.New(io.Discard, "[watch] ", log.LstdFlags),
		watcher:  fsw,
	}, nil
}

// Start blocks, running the handler after each save, until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	w.Logger.Printf("Watching %s", w.Path)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Println("Stopping watcher")
			w.mu.Lock()
			if w.timer != nil && w.timer.Stop() {
				w.pending.Done()
			}
			w.timer = nil
			w.mu.Unlock()
			w.pending.Wait()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Printf("Error: %v", err)
		}
	}
}

// Close stops the underlying watcher without waiting for Start.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.matches(event.Name) {
		return
	}

	// Debounce: a save usually produces several events.
	w.mu.Lock()
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	op := event.Op.String()
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.Debounce, func() {
		defer w.pending.Done()
		w.process(op)
	})
	w.mu.Unlock()
}

// matches reports whether an event path is the watched workbook. Office lock
// files (~$book.xlsx) are skipped.
func (w *Watcher) matches(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".~") {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == w.Path
}

func (w *Watcher) process(operation string) {
	evt := Event{
		Time:      time.Now(),
		Path:      w.Path,
		Operation: operation,
		Status:    "processed",
	}

	w.run.Lock()
	defer w.run.Unlock()

	if w.Handler != nil {
		if err := w.Handler(w.Path); err != nil {
			evt.Status = "error"
			evt.Error = err.Error()
			w.Logger.Printf("Error processing %s: %v", w.Path, err)
		} else {
			w.Logger.Printf("Processed %s", w.Path)
		}
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// Events returns all recorded events.
func (w *Watcher) Events() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
