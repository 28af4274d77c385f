package timeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dicklesworthstone/tln/internal/events"
)

// ErrInvalidMode is returned when an operation requires a mode the
// navigator is not in, e.g. Play outside playback mode. State is left
// untouched.
var ErrInvalidMode = errors.New("timeline: operation invalid in current mode")

// Mode selects how the cursor moves: tracking the live data edge, or
// driven by the playback clock.
type Mode int

const (
	// ModeLive tracks newly arriving data automatically.
	ModeLive Mode = iota
	// ModePlayback advances the cursor under the animation clock, bounded
	// by the current selection.
	ModePlayback
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModePlayback:
		return "playback"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "live":
		return ModeLive, nil
	case "playback":
		return ModePlayback, nil
	default:
		return 0, fmt.Errorf("timeline: unknown mode %q", s)
	}
}

// Default construction values. Documented here rather than hidden in
// globals; Options overrides any of them.
const (
	DefaultDataWindow       = 60 * time.Second
	DefaultTickPeriod       = 10 * time.Millisecond
	DefaultSelectionPadding = 0.1
)

// Options configures a Navigator. Zero values take the documented
// defaults.
type Options struct {
	// DataWindow is the duration of the initial data range, anchored at
	// the zero instant. Defaults to 60 seconds.
	DataWindow time.Duration

	// TickPeriod is the playback animation tick. Defaults to 10ms.
	TickPeriod time.Duration

	// SelectionPadding is the fractional padding ZoomToSelection applies.
	// Defaults to 0.1.
	SelectionPadding float64

	// Bus receives change notifications. When nil a private bus is
	// created; it is reachable via Navigator.Bus.
	Bus *events.Bus

	// Clock overrides the wall clock, for tests. Defaults to time.Now.
	Clock func() time.Time
}

// Navigator owns the timeline navigation state: the cursor, the data,
// selection and view ranges, the navigation mode, and the playback
// animation loop. All mutation goes through its methods; observers watch
// the bus or read the getters.
//
// Methods are safe for concurrent use: the playback ticker marshals
// through the same mutex as every public operation, so operations are
// totally ordered. Event handlers run after the mutating operation has
// committed and must not call back into the Navigator.
type Navigator struct {
	mu   sync.Mutex
	now  func() time.Time
	bus  *events.Bus
	tick time.Duration

	cursor    time.Time
	data      TimeRange
	selection TimeRange
	view      TimeRange
	mode      Mode
	padding   float64

	playback *playbackRun
}

// New creates a Navigator in live mode. The data, selection and view
// ranges all start as the initial data window; the cursor sits at its
// start.
func New(opts Options) *Navigator {
	if opts.DataWindow <= 0 {
		opts.DataWindow = DefaultDataWindow
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = DefaultTickPeriod
	}
	if opts.SelectionPadding <= 0 {
		opts.SelectionPadding = DefaultSelectionPadding
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus(100)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var anchor time.Time // the earliest usable instant
	initial := TimeRange{Start: anchor, End: anchor.Add(opts.DataWindow)}
	return &Navigator{
		now:       opts.Clock,
		bus:       opts.Bus,
		tick:      opts.TickPeriod,
		cursor:    anchor,
		data:      initial,
		selection: initial,
		view:      initial,
		mode:      ModeLive,
		padding:   opts.SelectionPadding,
	}
}

// Bus returns the bus change notifications are published on.
func (n *Navigator) Bus() *events.Bus { return n.bus }

// Close stops any active playback. Must be called before the Navigator is
// discarded so no ticker outlives it.
func (n *Navigator) Close() {
	n.StopPlaying()
}

// Cursor returns the current cursor position.
func (n *Navigator) Cursor() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor
}

// Mode returns the current navigation mode.
func (n *Navigator) Mode() Mode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mode
}

// DataRange returns the full extent of time for which data is known.
func (n *Navigator) DataRange() TimeRange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.data
}

// SelectionRange returns the user-chosen sub-interval.
func (n *Navigator) SelectionRange() TimeRange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.selection
}

// ViewRange returns the interval currently rendered by the panels.
func (n *Navigator) ViewRange() TimeRange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// SetCursor moves the cursor and notifies subscribers if it changed.
func (n *Navigator) SetCursor(t time.Time) {
	n.mu.Lock()
	evs := n.setCursorLocked(t)
	n.mu.Unlock()
	n.emit(evs)
}

// SetMode switches between live and playback navigation. Active playback
// is stopped first. Switching to live does not move the cursor or ranges.
func (n *Navigator) SetMode(m Mode) {
	n.StopPlaying()

	n.mu.Lock()
	if n.mode == m {
		n.mu.Unlock()
		return
	}
	prev := n.mode
	n.mode = m
	ev := events.ModeChanged{Timestamp: n.now(), Previous: prev.String(), Current: m.String()}
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// SetSelection replaces the selection range bounds.
func (n *Navigator) SetSelection(start, end time.Time) error {
	n.mu.Lock()
	if err := n.selection.SetRange(start, end); err != nil {
		n.mu.Unlock()
		return err
	}
	ev := n.rangeEventLocked(events.RangeSelection, n.selection)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
	return nil
}

// SetDataRange replaces the data range bounds. Apart from this
// initialization path, the data range only grows, via UpdateLiveExtents.
func (n *Navigator) SetDataRange(start, end time.Time) error {
	n.mu.Lock()
	if err := n.data.SetRange(start, end); err != nil {
		n.mu.Unlock()
		return err
	}
	ev := n.rangeEventLocked(events.RangeData, n.data)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
	return nil
}

// UpdateLiveExtents is the integration point for the live data
// collaborator: it is called with the timestamp of the newest observed
// sample. Outside live mode it is a no-op. In live mode the cursor, the
// view window and the data range each advance to currentTime if it lies
// beyond them; none of them ever move backward here, so repeated calls
// with a stale time change nothing and emit nothing.
func (n *Navigator) UpdateLiveExtents(currentTime time.Time) {
	n.mu.Lock()
	if n.mode != ModeLive {
		n.mu.Unlock()
		return
	}

	var evs []events.BusEvent
	if currentTime.After(n.cursor) {
		evs = append(evs, n.setCursorLocked(currentTime)...)
	}
	if isFiniteBound(n.view.End) && currentTime.After(n.view.End) {
		if dur, ok := n.view.Duration(); ok {
			n.view = TimeRange{Start: currentTime.Add(-dur), End: currentTime}
			evs = append(evs, n.rangeEventLocked(events.RangeView, n.view))
		}
	}
	if isFiniteBound(n.data.End) && currentTime.After(n.data.End) {
		n.data.End = currentTime
		evs = append(evs, n.rangeEventLocked(events.RangeData, n.data))
	}
	n.mu.Unlock()
	n.emit(evs)
}

// setCursorLocked updates the cursor and returns the events to publish.
// Caller holds the mutex.
func (n *Navigator) setCursorLocked(t time.Time) []events.BusEvent {
	if t.Equal(n.cursor) {
		return nil
	}
	prev := n.cursor
	n.cursor = t
	return []events.BusEvent{events.CursorMoved{Timestamp: n.now(), Previous: prev, Current: t}}
}

// rangeEventLocked builds the change event for one of the owned ranges.
// Caller holds the mutex.
func (n *Navigator) rangeEventLocked(which string, r TimeRange) events.BusEvent {
	return events.RangeChanged{Timestamp: n.now(), Range: which, Start: r.Start, End: r.End}
}

// emit publishes events after the mutating operation has released the
// mutex, preserving mutation order for a single driving goroutine.
func (n *Navigator) emit(evs []events.BusEvent) {
	for _, ev := range evs {
		n.bus.Publish(ev)
	}
}
