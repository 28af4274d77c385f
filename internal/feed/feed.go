// Package feed connects a stream of time-stamped samples to the timeline
// navigator. It tails a JSONL sample file and reports each newly observed
// timestamp to the navigator's live-extent entry point; it never decodes
// sample payloads beyond the timestamp and value.
package feed

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Dicklesworthstone/tln/internal/watcher"
)

// DefaultMaxRetained bounds how many recent samples are kept for the
// panels to render.
const DefaultMaxRetained = 10000

// Sample is one time-stamped data point from the producing pipeline.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Label     string    `json:"label,omitempty"`
}

// Sink receives the advancing live edge. *timeline.Navigator satisfies
// this with its UpdateLiveExtents method.
type Sink interface {
	UpdateLiveExtents(currentTime time.Time)
}

// Feed tails a JSONL sample file and forwards live extents to a Sink.
// File growth is observed through a debounced watcher, so a burst of
// appends collapses into one extent update carrying the newest timestamp.
type Feed struct {
	path        string
	sink        Sink
	throttle    time.Duration
	maxRetained int

	w *watcher.Watcher

	mu      sync.Mutex
	offset  int64
	samples []Sample
	latest  time.Time
}

// Option configures a Feed.
type Option func(*Feed)

// WithThrottle sets the minimum interval between extent updates. Appends
// arriving faster are coalesced.
func WithThrottle(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.throttle = d
		}
	}
}

// WithMaxRetained bounds the number of samples kept in memory.
func WithMaxRetained(n int) Option {
	return func(f *Feed) {
		if n > 0 {
			f.maxRetained = n
		}
	}
}

// New creates a Feed for the given sample file.
func New(path string, sink Sink, opts ...Option) *Feed {
	f := &Feed{
		path:        path,
		sink:        sink,
		throttle:    50 * time.Millisecond,
		maxRetained: DefaultMaxRetained,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start consumes the existing file contents, then begins tailing. The
// file does not need to exist yet; it is picked up on first append once
// its directory exists.
func (f *Feed) Start() error {
	if err := f.consume(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading sample file: %w", err)
	}

	w, err := watcher.New(func(events []watcher.Event) {
		if err := f.consume(); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "feed: %v\n", err)
		}
	}, watcher.WithDebounce(f.throttle), watcher.WithEventFilter(watcher.Create|watcher.Write))
	if err != nil {
		return fmt.Errorf("creating feed watcher: %w", err)
	}
	f.w = w

	if err := w.Add(f.path); err != nil {
		// Watch the directory until the file appears.
		if err := w.Add(filepath.Dir(f.path)); err != nil {
			w.Close()
			return fmt.Errorf("watching sample file %s: %w", f.path, err)
		}
	}
	return nil
}

// Stop stops tailing. Safe to call more than once.
func (f *Feed) Stop() {
	if f.w != nil {
		f.w.Close()
		f.w = nil
	}
}

// Latest returns the newest timestamp observed so far.
func (f *Feed) Latest() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// LatestSample returns the most recently parsed sample, if any.
func (f *Feed) LatestSample() (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.samples) == 0 {
		return Sample{}, false
	}
	return f.samples[len(f.samples)-1], true
}

// Samples returns the retained samples, oldest first.
func (f *Feed) Samples() []Sample {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Sample, len(f.samples))
	copy(out, f.samples)
	return out
}

// consume reads any bytes appended since the last read, parses them as
// JSONL samples, and pushes the newest timestamp to the sink.
func (f *Feed) consume() error {
	file, err := os.Open(f.path)
	if err != nil {
		return err
	}
	defer file.Close()

	f.mu.Lock()
	offset := f.offset
	f.mu.Unlock()

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < offset {
		// Truncated or rotated; start over.
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	var parsed []Sample
	var newest time.Time
	read := offset
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			// Unterminated tail: the producer is still writing this line.
			// Leave the offset before it so the next consume rereads the
			// whole line once the newline lands.
			break
		}
		if err != nil {
			return err
		}
		read += int64(len(line))
		line = bytes.TrimRight(line, "\n")
		if len(line) == 0 {
			continue
		}
		var s Sample
		if err := json.Unmarshal(line, &s); err != nil {
			// Skip malformed lines.
			continue
		}
		parsed = append(parsed, s)
		if s.Timestamp.After(newest) {
			newest = s.Timestamp
		}
	}

	f.mu.Lock()
	f.offset = read
	f.samples = append(f.samples, parsed...)
	if len(f.samples) > f.maxRetained {
		f.samples = f.samples[len(f.samples)-f.maxRetained:]
	}
	advanced := newest.After(f.latest)
	if advanced {
		f.latest = newest
	}
	f.mu.Unlock()

	if advanced && f.sink != nil {
		f.sink.UpdateLiveExtents(newest)
	}
	return nil
}
