package timeline

import "time"

// RemoteMode is the reduced two-value mode enumeration used across the
// process boundary.
type RemoteMode int

const (
	RemoteLive     RemoteMode = 0
	RemotePlayback RemoteMode = 1
)

// RangePair is a range flattened to a plain (start, end) pair.
type RangePair struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Range converts the pair back into a TimeRange value.
func (p RangePair) Range() TimeRange {
	return TimeRange{Start: p.Start, End: p.End}
}

// Snapshot is the navigator state reduced to simple value types, for
// observers in another process. It carries no event delegates and no
// references into the navigator.
type Snapshot struct {
	Mode      RemoteMode `json:"mode"`
	Cursor    time.Time  `json:"cursor"`
	Data      RangePair  `json:"data"`
	Selection RangePair  `json:"selection"`
	View      RangePair  `json:"view"`
	Playing   bool       `json:"playing"`
	Speed     float64    `json:"speed,omitempty"`
}

// Remote is the narrow, value-type-only capability view over a Navigator
// for cross-process control. It is backed by the same state as the full
// interface, never a copy.
type Remote struct {
	nav *Navigator
}

// Remote returns the reduced control facet over this navigator.
func (n *Navigator) Remote() *Remote {
	return &Remote{nav: n}
}

// Snapshot captures the full navigation state at once, consistently.
func (r *Remote) Snapshot() Snapshot {
	n := r.nav
	n.mu.Lock()
	defer n.mu.Unlock()

	mode := RemoteLive
	if n.mode == ModePlayback {
		mode = RemotePlayback
	}
	var speed float64
	if n.playback != nil {
		speed = n.playback.speed
	}
	return Snapshot{
		Mode:      mode,
		Cursor:    n.cursor,
		Data:      RangePair{Start: n.data.Start, End: n.data.End},
		Selection: RangePair{Start: n.selection.Start, End: n.selection.End},
		View:      RangePair{Start: n.view.Start, End: n.view.End},
		Playing:   n.playback != nil,
		Speed:     speed,
	}
}

// SetMode switches the navigation mode.
func (r *Remote) SetMode(m RemoteMode) {
	if m == RemotePlayback {
		r.nav.SetMode(ModePlayback)
		return
	}
	r.nav.SetMode(ModeLive)
}

// SetCursor moves the cursor.
func (r *Remote) SetCursor(t time.Time) {
	r.nav.SetCursor(t)
}

// Zoom sets the view range.
func (r *Remote) Zoom(start, end time.Time) error {
	return r.nav.Zoom(start, end)
}

// Play starts playback at the given speed.
func (r *Remote) Play(speed float64) error {
	return r.nav.Play(speed)
}

// StopPlaying stops playback.
func (r *Remote) StopPlaying() {
	r.nav.StopPlaying()
}
