// Package watcher provides debounced file watching for the config file
// and the live sample feed, built on fsnotify.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed Watcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// EventType represents the type of file system event.
type EventType uint32

const (
	// Create is triggered when a file is created.
	Create EventType = 1 << iota
	// Write is triggered when a file is modified.
	Write
	// Remove is triggered when a file is removed.
	Remove
	// Rename is triggered when a file is renamed.
	Rename
	// All events.
	All = Create | Write | Remove | Rename
)

// Event represents a file system event.
type Event struct {
	// Path is the absolute path to the file.
	Path string
	// Type is the type of event.
	Type EventType
}

func eventTypeFromFsnotify(op fsnotify.Op) EventType {
	var t EventType
	if op.Has(fsnotify.Create) {
		t |= Create
	}
	if op.Has(fsnotify.Write) {
		t |= Write
	}
	if op.Has(fsnotify.Remove) {
		t |= Remove
	}
	if op.Has(fsnotify.Rename) {
		t |= Rename
	}
	return t
}

// Handler is called with a batch of events. Rapid events within the
// debounce window are coalesced into a single call.
type Handler func(events []Event)

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// Watcher watches files for changes and delivers debounced batches to
// its handler.
type Watcher struct {
	fsWatcher    *fsnotify.Watcher
	debouncer    *Debouncer
	handler      Handler
	errorHandler ErrorHandler
	eventFilter  EventType

	mu            sync.Mutex
	watchedPaths  map[string]bool
	pendingEvents []Event
	closed        bool
}

// New creates a Watcher. All event types are delivered unless
// WithEventFilter narrows them.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		debouncer:    NewDebouncer(DefaultDebounceDuration),
		handler:      handler,
		eventFilter:  All,
		watchedPaths: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w.fsWatcher = fsWatcher

	go w.run()
	return w, nil
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce window for coalescing events.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debouncer = NewDebouncer(d)
		}
	}
}

// WithEventFilter sets which event types are delivered.
func WithEventFilter(filter EventType) Option {
	return func(w *Watcher) {
		w.eventFilter = filter
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(w *Watcher) {
		w.errorHandler = handler
	}
}

// Add starts watching a path.
func (w *Watcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.watchedPaths[absPath] {
		return nil
	}
	if err := w.fsWatcher.Add(absPath); err != nil {
		return err
	}
	w.watchedPaths[absPath] = true
	return nil
}

// Remove stops watching a path.
func (w *Watcher) Remove(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.watchedPaths[absPath] {
		return nil
	}
	delete(w.watchedPaths, absPath)
	return w.fsWatcher.Remove(absPath)
}

// Close stops the watcher. No handler invocation starts after Close
// returns, though one already running may finish.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.pendingEvents = nil
	w.mu.Unlock()

	w.debouncer.Cancel()
	return w.fsWatcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			t := eventTypeFromFsnotify(ev.Op)
			if t&w.eventFilter == 0 {
				continue
			}
			w.enqueue(Event{Path: ev.Name, Type: t})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

// enqueue batches the event and schedules a debounced flush.
func (w *Watcher) enqueue(ev Event) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pendingEvents = append(w.pendingEvents, ev)
	w.mu.Unlock()

	w.debouncer.Trigger(w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.pendingEvents
	w.pendingEvents = nil
	closed := w.closed
	w.mu.Unlock()

	if closed || len(events) == 0 {
		return
	}
	w.handler(events)
}
