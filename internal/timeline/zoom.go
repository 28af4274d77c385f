package timeline

import (
	"fmt"
	"math"
	"time"

	"github.com/Dicklesworthstone/tln/internal/events"
)

// Fixed ratios used by the ZoomIn and ZoomOut conveniences.
const (
	ZoomInRatio  = 1.0 / 3.0
	ZoomOutRatio = 3.0
)

// Zoom sets the view range directly. Both bounds must be finite instants
// with start <= end; otherwise the view is left untouched and
// ErrMalformedRange is returned.
func (n *Navigator) Zoom(start, end time.Time) error {
	if !isFiniteBound(start) || !isFiniteBound(end) {
		return fmt.Errorf("%w: zoom bounds must be finite", ErrMalformedRange)
	}

	n.mu.Lock()
	if err := n.view.SetRange(start, end); err != nil {
		n.mu.Unlock()
		return err
	}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
	return nil
}

// ZoomAroundCenter rescales the view around its midpoint: the duration
// becomes currentDuration * ratio. Ratios below 1 zoom in, above 1 zoom
// out. No-op when the view is not finite.
//
// The new duration is computed from the full current duration and
// rounded once, so ZoomIn followed by ZoomOut restores the duration
// exactly whenever the scaled duration is a whole nanosecond count.
func (n *Navigator) ZoomAroundCenter(ratio float64) {
	n.mu.Lock()
	dur, ok := n.view.Duration()
	if !ok {
		n.mu.Unlock()
		return
	}
	mid := n.view.Mid()
	scaled := time.Duration(math.Round(float64(dur) * ratio))
	start := mid.Add(-scaled / 2)
	n.view = TimeRange{Start: start, End: start.Add(scaled)}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// ZoomAroundCenterTo recenters the view on its midpoint with the given
// absolute duration. No-op when the view is not finite.
func (n *Navigator) ZoomAroundCenterTo(d time.Duration) {
	n.mu.Lock()
	if !n.view.IsFinite() {
		n.mu.Unlock()
		return
	}
	mid := n.view.Mid()
	n.view = TimeRange{Start: mid.Add(-d / 2), End: mid.Add(d / 2)}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// ZoomAroundCursor rescales the spans before and after the cursor
// independently by ratio, so the cursor keeps its relative position in
// the view rather than being recentered. No-op when the view is not
// finite.
func (n *Navigator) ZoomAroundCursor(ratio float64) {
	n.mu.Lock()
	if !n.view.IsFinite() {
		n.mu.Unlock()
		return
	}
	before := time.Duration(float64(n.cursor.Sub(n.view.Start)) * ratio)
	after := time.Duration(float64(n.view.End.Sub(n.cursor)) * ratio)
	n.view = TimeRange{Start: n.cursor.Add(-before), End: n.cursor.Add(after)}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// ZoomAroundCursorTo centers a window of the given duration exactly on
// the cursor.
func (n *Navigator) ZoomAroundCursorTo(d time.Duration) {
	n.mu.Lock()
	n.view = TimeRange{Start: n.cursor.Add(-d / 2), End: n.cursor.Add(d / 2)}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// ZoomIn shrinks the view to a third of its duration, centered.
func (n *Navigator) ZoomIn() {
	n.ZoomAroundCenter(ZoomInRatio)
}

// ZoomOut triples the view duration, centered.
func (n *Navigator) ZoomOut() {
	n.ZoomAroundCenter(ZoomOutRatio)
}

// ZoomToDataRange makes the view exactly the data range.
func (n *Navigator) ZoomToDataRange() {
	n.mu.Lock()
	n.view = n.data
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// ZoomToSelection makes the view the selection range expanded on each
// side by selectionDuration * padding / 2. No-op when the selection is
// not finite.
func (n *Navigator) ZoomToSelection() {
	n.mu.Lock()
	dur, ok := n.selection.Duration()
	if !ok {
		n.mu.Unlock()
		return
	}
	pad := time.Duration(float64(dur) * n.padding / 2)
	n.view = TimeRange{Start: n.selection.Start.Add(-pad), End: n.selection.End.Add(pad)}
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}

// Pan slides the view by d without changing its duration. Negative
// durations pan backward.
func (n *Navigator) Pan(d time.Duration) {
	n.mu.Lock()
	if !n.view.IsFinite() {
		n.mu.Unlock()
		return
	}
	n.view = n.view.Translate(d)
	ev := n.rangeEventLocked(events.RangeView, n.view)
	n.mu.Unlock()
	n.emit([]events.BusEvent{ev})
}
