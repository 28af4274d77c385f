package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type sinkRecorder struct {
	mu    sync.Mutex
	times []time.Time
}

func (s *sinkRecorder) UpdateLiveExtents(t time.Time) {
	s.mu.Lock()
	s.times = append(s.times, t)
	s.mu.Unlock()
}

func (s *sinkRecorder) latest() (time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.times) == 0 {
		return time.Time{}, 0
	}
	return s.times[len(s.times)-1], len(s.times)
}

func sampleLine(t *testing.T, ts time.Time, value float64) []byte {
	t.Helper()
	data, err := json.Marshal(Sample{Timestamp: ts, Value: value})
	if err != nil {
		t.Fatal(err)
	}
	return append(data, '\n')
}

func waitSink(t *testing.T, s *sinkRecorder, want time.Time) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if latest, n := s.latest(); n > 0 && latest.Equal(want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	latest, n := s.latest()
	t.Fatalf("timed out waiting for extent %s; got %s after %d updates", want, latest, n)
}

func TestFeed_ConsumesExistingFile(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "samples.jsonl")
	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		buf.Write(sampleLine(t, base.Add(time.Duration(i)*time.Second), float64(i)))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &sinkRecorder{}
	f := New(path, sink, WithThrottle(10*time.Millisecond))
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	latest, n := sink.latest()
	if n != 1 {
		t.Fatalf("expected one extent update for the initial read, got %d", n)
	}
	if !latest.Equal(base.Add(2 * time.Second)) {
		t.Errorf("latest = %s", latest)
	}
	if got := len(f.Samples()); got != 3 {
		t.Errorf("retained %d samples, want 3", got)
	}
}

func TestFeed_TailsAppends(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "samples.jsonl")
	if err := os.WriteFile(path, sampleLine(t, base, 0), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &sinkRecorder{}
	f := New(path, sink, WithThrottle(10*time.Millisecond))
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	file.Write(sampleLine(t, base.Add(5*time.Second), 1))
	file.Close()

	waitSink(t, sink, base.Add(5*time.Second))
}

func TestFeed_SkipsMalformedLines(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "samples.jsonl")
	var buf bytes.Buffer
	buf.Write(sampleLine(t, base, 0))
	fmt.Fprintln(&buf, "{this is not json")
	buf.Write(sampleLine(t, base.Add(time.Second), 1))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &sinkRecorder{}
	f := New(path, sink)
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	if got := len(f.Samples()); got != 2 {
		t.Errorf("retained %d samples, want 2", got)
	}
	if !f.Latest().Equal(base.Add(time.Second)) {
		t.Errorf("latest = %s", f.Latest())
	}
}

func TestFeed_AppendSplitMidLine(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "samples.jsonl")

	// The producer has flushed one full line and half of the next.
	second := sampleLine(t, base.Add(time.Second), 1)
	half := len(second) / 2
	var buf bytes.Buffer
	buf.Write(sampleLine(t, base, 0))
	buf.Write(second[:half])
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	sink := &sinkRecorder{}
	f := New(path, sink)
	if err := f.consume(); err != nil {
		t.Fatal(err)
	}
	if got := len(f.Samples()); got != 1 {
		t.Fatalf("retained %d samples before the line completed, want 1", got)
	}
	if !f.Latest().Equal(base) {
		t.Errorf("latest = %s, want %s", f.Latest(), base)
	}

	// The rest of the line (including its newline) lands in a later append.
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	file.Write(second[half:])
	file.Close()

	if err := f.consume(); err != nil {
		t.Fatal(err)
	}
	samples := f.Samples()
	if len(samples) != 2 {
		t.Fatalf("retained %d samples after the line completed, want 2", len(samples))
	}
	if !samples[1].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("reassembled sample timestamp = %s", samples[1].Timestamp)
	}
	if latest, n := sink.latest(); n != 2 || !latest.Equal(base.Add(time.Second)) {
		t.Errorf("sink saw %d updates, latest %s", n, latest)
	}

	// A consume with nothing new must not re-ingest from a stale offset.
	if err := f.consume(); err != nil {
		t.Fatal(err)
	}
	if got := len(f.Samples()); got != 2 {
		t.Errorf("retained %d samples after idle consume, want 2", got)
	}
}

func TestFeed_RetentionBound(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "samples.jsonl")
	var buf bytes.Buffer
	for i := 0; i < 10; i++ {
		buf.Write(sampleLine(t, base.Add(time.Duration(i)*time.Second), float64(i)))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	f := New(path, nil, WithMaxRetained(4))
	if err := f.Start(); err != nil {
		t.Fatal(err)
	}
	defer f.Stop()

	samples := f.Samples()
	if len(samples) != 4 {
		t.Fatalf("retained %d samples, want 4", len(samples))
	}
	// The newest samples survive.
	if !samples[3].Timestamp.Equal(base.Add(9 * time.Second)) {
		t.Errorf("newest retained = %s", samples[3].Timestamp)
	}
}

func TestGenerator_EmitsSamples(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var buf bytes.Buffer
	w := writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return buf.Write(p)
	})

	g := NewGenerator(w, 5*time.Millisecond)
	g.Start()
	g.Start() // second Start is a no-op

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := bytes.Count(buf.Bytes(), []byte("\n"))
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	g.Stop()
	g.Stop() // idempotent

	mu.Lock()
	defer mu.Unlock()
	var s Sample
	if err := json.Unmarshal(bytes.Split(buf.Bytes(), []byte("\n"))[0], &s); err != nil {
		t.Fatalf("generator output not JSONL: %v", err)
	}
	if s.Timestamp.IsZero() {
		t.Error("sample missing timestamp")
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
