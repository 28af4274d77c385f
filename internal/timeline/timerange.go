// Package timeline implements the navigation core for tln: the cursor, the
// data/selection/view ranges, the Live and Playback modes, zooming, and the
// playback animation loop. It owns "where in time" the tool is looking; it
// never decodes, renders, or performs I/O.
package timeline

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRange is returned when a range is given finite bounds with
// end before start. Malformed ranges are rejected, never swapped or
// clamped; the prior bounds are left intact.
var ErrMalformedRange = errors.New("timeline: range end before start")

// Sentinel bounds for ranges with no known lower or upper edge. A bound
// equal to one of these is treated as unbounded rather than as an instant.
var (
	InfinitePast   = time.Date(-9999, time.January, 1, 0, 0, 0, 0, time.UTC)
	InfiniteFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// TimeRange is an ordered pair of instants. Either bound may be one of the
// infinite sentinels. When both bounds are finite, Start <= End holds.
//
// TimeRange has value semantics and no identity of its own; each instance
// is owned by exactly one Navigator field (data, selection or view range),
// and change notification is the owner's job.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange returns a range with the given bounds, or ErrMalformedRange
// if both are finite and end precedes start.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	var r TimeRange
	if err := r.SetRange(start, end); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// SetRange replaces both bounds at once. Bounds are validated before
// anything is written, so a rejected call leaves the range untouched.
func (r *TimeRange) SetRange(start, end time.Time) error {
	if isFiniteBound(start) && isFiniteBound(end) && end.Before(start) {
		return fmt.Errorf("%w: start=%s end=%s", ErrMalformedRange,
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}
	r.Start = start
	r.End = end
	return nil
}

// IsFinite reports whether both bounds are real instants rather than the
// infinite sentinels.
func (r TimeRange) IsFinite() bool {
	return isFiniteBound(r.Start) && isFiniteBound(r.End)
}

// Duration returns End - Start. The second return is false when either
// bound is unbounded and the duration is undefined.
func (r TimeRange) Duration() (time.Duration, bool) {
	if !r.IsFinite() {
		return 0, false
	}
	return r.End.Sub(r.Start), true
}

// Mid returns the midpoint of a finite range.
func (r TimeRange) Mid() time.Time {
	return r.Start.Add(r.End.Sub(r.Start) / 2)
}

// Contains reports whether t falls within the range (inclusive bounds,
// unbounded edges always match).
func (r TimeRange) Contains(t time.Time) bool {
	if isFiniteBound(r.Start) && t.Before(r.Start) {
		return false
	}
	if isFiniteBound(r.End) && t.After(r.End) {
		return false
	}
	return true
}

// Translate returns a copy of the range shifted by d. Unbounded edges stay
// unbounded.
func (r TimeRange) Translate(d time.Duration) TimeRange {
	out := r
	if isFiniteBound(out.Start) {
		out.Start = out.Start.Add(d)
	}
	if isFiniteBound(out.End) {
		out.End = out.End.Add(d)
	}
	return out
}

func (r TimeRange) String() string {
	fmtBound := func(t time.Time) string {
		switch {
		case t.Equal(InfinitePast):
			return "-inf"
		case t.Equal(InfiniteFuture):
			return "+inf"
		default:
			return t.Format(time.RFC3339Nano)
		}
	}
	return fmt.Sprintf("[%s .. %s]", fmtBound(r.Start), fmtBound(r.End))
}

func isFiniteBound(t time.Time) bool {
	return !t.Equal(InfinitePast) && !t.Equal(InfiniteFuture)
}
