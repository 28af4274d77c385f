package timeline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dicklesworthstone/tln/internal/events"
)

// fakeClock is a manually advanced wall clock shared between the test and
// the navigator's ticker goroutine.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{t: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// recorder collects every published event in order.
type recorder struct {
	mu     sync.Mutex
	events []events.BusEvent
}

func (r *recorder) attach(bus *events.Bus) {
	bus.SubscribeAll(func(e events.BusEvent) {
		r.mu.Lock()
		r.events = append(r.events, e)
		r.mu.Unlock()
	})
}

func (r *recorder) all() []events.BusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.BusEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestNav(t *testing.T) (*Navigator, *fakeClock, *recorder) {
	t.Helper()
	clock := newFakeClock(at(0))
	nav := New(Options{
		TickPeriod: time.Millisecond,
		Clock:      clock.Now,
	})
	t.Cleanup(nav.Close)
	rec := &recorder{}
	rec.attach(nav.Bus())
	return nav, clock, rec
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	nav := New(Options{})
	defer nav.Close()

	if nav.Mode() != ModeLive {
		t.Errorf("expected live mode, got %s", nav.Mode())
	}
	if nav.IsPlaying() {
		t.Error("new navigator should not be playing")
	}
	dur, ok := nav.DataRange().Duration()
	if !ok || dur != DefaultDataWindow {
		t.Errorf("expected %s data window, got %s", DefaultDataWindow, dur)
	}
	if !nav.Cursor().Equal(nav.DataRange().Start) {
		t.Error("cursor should start at the data range start")
	}
}

func TestSetCursor_EmitsOnce(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)

	nav.SetCursor(at(42))
	evs := rec.all()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	moved, ok := evs[0].(events.CursorMoved)
	if !ok {
		t.Fatalf("expected CursorMoved, got %T", evs[0])
	}
	if !moved.Previous.Equal(at(0)) || !moved.Current.Equal(at(42)) {
		t.Errorf("event carries wrong positions: prev=%s cur=%s", moved.Previous, moved.Current)
	}

	// Same position again: no second notification.
	nav.SetCursor(at(42))
	if rec.count() != 1 {
		t.Errorf("redundant SetCursor emitted an event")
	}
}

func TestSetMode(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)

	nav.SetMode(ModePlayback)
	if nav.Mode() != ModePlayback {
		t.Fatalf("mode = %s", nav.Mode())
	}
	evs := rec.all()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	mc, ok := evs[0].(events.ModeChanged)
	if !ok {
		t.Fatalf("expected ModeChanged, got %T", evs[0])
	}
	if mc.Previous != "live" || mc.Current != "playback" {
		t.Errorf("wrong transition: %s -> %s", mc.Previous, mc.Current)
	}

	// Setting the same mode again is silent.
	nav.SetMode(ModePlayback)
	if rec.count() != 1 {
		t.Error("redundant SetMode emitted an event")
	}
}

func TestSetMode_StopsPlayback(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	nav.SetMode(ModePlayback)
	if err := nav.SetSelection(at(0), at(100)); err != nil {
		t.Fatal(err)
	}
	if err := nav.Play(1.0); err != nil {
		t.Fatal(err)
	}
	if !nav.IsPlaying() {
		t.Fatal("expected playback to be active")
	}

	nav.SetMode(ModeLive)
	if nav.IsPlaying() {
		t.Error("switching modes must stop playback")
	}
}

func TestPlay_InvalidInLiveMode(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)

	before := nav.Remote().Snapshot()
	err := nav.Play(1.0)
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if nav.IsPlaying() {
		t.Error("failed Play must not start the ticker")
	}
	if rec.count() != 0 {
		t.Error("failed Play must not emit events")
	}
	after := nav.Remote().Snapshot()
	if before != after {
		t.Error("failed Play mutated state")
	}
}

func TestUpdateLiveExtents(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)
	if err := nav.Zoom(at(0), at(10)); err != nil {
		t.Fatal(err)
	}
	rec.mu.Lock()
	rec.events = nil
	rec.mu.Unlock()

	// Advance past cursor, view end and data end all at once.
	nav.UpdateLiveExtents(at(90))

	if !nav.Cursor().Equal(at(90)) {
		t.Errorf("cursor = %s, want %s", nav.Cursor(), at(90))
	}
	view := nav.ViewRange()
	if !view.End.Equal(at(90)) {
		t.Errorf("view end = %s, want %s", view.End, at(90))
	}
	if dur, _ := view.Duration(); dur != 10*time.Second {
		t.Errorf("view duration changed while following: %s", dur)
	}
	data := nav.DataRange()
	if !data.End.Equal(at(90)) {
		t.Errorf("data end = %s, want %s", data.End, at(90))
	}
	if !data.Start.Equal(at(0)) {
		t.Errorf("data start moved: %s", data.Start)
	}

	// One cursor, one view and one data notification.
	if rec.count() != 3 {
		t.Fatalf("expected 3 events, got %d", rec.count())
	}
}

func TestUpdateLiveExtents_StaleTimeIsIdempotent(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)
	nav.UpdateLiveExtents(at(90))
	n := rec.count()

	nav.UpdateLiveExtents(at(90))
	nav.UpdateLiveExtents(at(30))
	if rec.count() != n {
		t.Errorf("stale live extents emitted events: %d -> %d", n, rec.count())
	}
	if !nav.DataRange().End.Equal(at(90)) {
		t.Error("data range end must never decrease")
	}
}

func TestUpdateLiveExtents_NoopInPlaybackMode(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)
	nav.SetMode(ModePlayback)
	n := rec.count()

	nav.UpdateLiveExtents(at(500))
	if rec.count() != n {
		t.Error("live extents must be ignored outside live mode")
	}
	if nav.Cursor().Equal(at(500)) {
		t.Error("cursor moved outside live mode")
	}
}

func TestSetSelection_RejectsMalformed(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.SetSelection(at(10), at(20)); err != nil {
		t.Fatal(err)
	}
	err := nav.SetSelection(at(30), at(5))
	if !errors.Is(err, ErrMalformedRange) {
		t.Fatalf("expected ErrMalformedRange, got %v", err)
	}
	sel := nav.SelectionRange()
	if !sel.Start.Equal(at(10)) || !sel.End.Equal(at(20)) {
		t.Error("rejected SetSelection mutated the selection")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ModeLive, ModePlayback} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
