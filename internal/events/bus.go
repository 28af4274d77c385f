package events

import (
	"container/ring"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
)

// Handler is a callback invoked for each published event.
type Handler func(BusEvent)

// UnsubscribeFunc is returned from Subscribe and removes the subscription
// when called.
type UnsubscribeFunc func()

// handlerEntry wraps a handler with a unique ID for safe unsubscription.
type handlerEntry struct {
	id      uint64
	handler Handler
}

// Bus is a pub/sub hub for navigation events. Publish is synchronous:
// handlers run inline, in subscription order, before Publish returns, so a
// subscriber sees changes in exactly the order they were applied.
//
// Handlers must not call back into the object that published the event;
// they observe state through the event payload or read-only getters.
type Bus struct {
	subscribers map[string][]handlerEntry
	nextID      atomic.Uint64
	mu          sync.RWMutex
	history     *ring.Ring
	historySize int
	historyMu   sync.RWMutex
}

// NewBus creates a bus that retains the last historySize events.
func NewBus(historySize int) *Bus {
	if historySize < 1 {
		historySize = 100
	}
	return &Bus{
		subscribers: make(map[string][]handlerEntry),
		history:     ring.New(historySize),
		historySize: historySize,
	}
}

// Subscribe registers a handler for a specific event type and returns an
// unsubscribe function.
func (b *Bus) Subscribe(eventType string, handler Handler) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subscribers[eventType] = append(b.subscribers[eventType], handlerEntry{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		handlers := b.subscribers[eventType]
		for i, h := range handlers {
			if h.id == id {
				b.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) UnsubscribeFunc {
	return b.Subscribe("*", handler)
}

// Publish records the event in history and delivers it to all matching
// subscribers before returning.
func (b *Bus) Publish(event BusEvent) {
	b.historyMu.Lock()
	b.history.Value = event
	b.history = b.history.Next()
	b.historyMu.Unlock()

	b.mu.RLock()
	eventType := event.EventType()
	entries := make([]handlerEntry, 0, len(b.subscribers[eventType])+len(b.subscribers["*"]))
	entries = append(entries, b.subscribers[eventType]...)
	entries = append(entries, b.subscribers["*"]...)
	b.mu.RUnlock()

	// Handlers run outside the lock so they may subscribe/unsubscribe.
	for _, entry := range entries {
		entry.handler(event)
	}
}

// History returns up to limit recent events, newest first.
func (b *Bus) History(limit int) []BusEvent {
	if limit <= 0 || limit > b.historySize {
		limit = b.historySize
	}

	b.historyMu.RLock()
	defer b.historyMu.RUnlock()

	out := make([]BusEvent, 0, limit)
	r := b.history.Prev()
	for i := 0; i < limit; i++ {
		if event, ok := r.Value.(BusEvent); ok {
			out = append(out, event)
		}
		r = r.Prev()
	}
	return out
}

// StreamJSON subscribes a wildcard handler that encodes every event as a
// JSON line to w. Used by machine-readable monitoring modes.
func (b *Bus) StreamJSON(w io.Writer) UnsubscribeFunc {
	enc := json.NewEncoder(w)
	return b.SubscribeAll(func(e BusEvent) {
		enc.Encode(e)
	})
}

// SubscriberCount returns the number of subscribers for an event type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}
