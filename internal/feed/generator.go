package feed

import (
	"encoding/json"
	"io"
	"math"
	"sync"
	"time"
)

// Generator produces synthetic samples for demo sessions, writing JSONL
// lines the Feed can tail. The value traces a slow sine wave so the
// timeline has visible shape.
type Generator struct {
	out      io.Writer
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	quit chan struct{}
	done chan struct{}
}

// NewGenerator creates a generator writing one sample per interval.
func NewGenerator(out io.Writer, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Generator{out: out, interval: interval, now: time.Now}
}

// Start begins emitting samples. It is a no-op when already running.
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.quit != nil {
		return
	}
	g.quit = make(chan struct{})
	g.done = make(chan struct{})
	go g.run(g.quit, g.done)
}

// Stop halts emission and waits for the last write to finish.
func (g *Generator) Stop() {
	g.mu.Lock()
	quit, done := g.quit, g.done
	g.quit, g.done = nil, nil
	g.mu.Unlock()

	if quit == nil {
		return
	}
	close(quit)
	<-done
}

func (g *Generator) run(quit, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	start := g.now()
	enc := json.NewEncoder(g.out)
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			t := g.now()
			enc.Encode(Sample{
				Timestamp: t,
				Value:     math.Sin(t.Sub(start).Seconds() / 3),
			})
		}
	}
}
