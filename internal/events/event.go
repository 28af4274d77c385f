// Package events provides the change notification bus for the timeline
// navigator, plus a JSONL analytics logger for navigation sessions.
// Subscribers receive exactly one event per logical change, in the order
// the changes were applied.
package events

import (
	"time"
)

// Event type identifiers used for bus subscriptions.
const (
	TypeCursorMoved     = "cursor_moved"
	TypeModeChanged     = "mode_changed"
	TypeRangeChanged    = "range_changed"
	TypePlaybackStarted = "playback_started"
	TypePlaybackStopped = "playback_stopped"
)

// Range identifiers carried by RangeChanged events.
const (
	RangeData      = "data"
	RangeSelection = "selection"
	RangeView      = "view"
)

// BusEvent is the interface all bus events implement.
type BusEvent interface {
	EventType() string
	EventTimestamp() time.Time
}

// CursorMoved is published when the navigation cursor changes.
type CursorMoved struct {
	Timestamp time.Time `json:"timestamp"`
	Previous  time.Time `json:"previous"`
	Current   time.Time `json:"current"`
}

func (e CursorMoved) EventType() string         { return TypeCursorMoved }
func (e CursorMoved) EventTimestamp() time.Time { return e.Timestamp }

// ModeChanged is published when the navigation mode flips between live and
// playback. Modes are carried as their string names so subscribers outside
// the timeline package can match on them without importing it.
type ModeChanged struct {
	Timestamp time.Time `json:"timestamp"`
	Previous  string    `json:"previous"`
	Current   string    `json:"current"`
}

func (e ModeChanged) EventType() string         { return TypeModeChanged }
func (e ModeChanged) EventTimestamp() time.Time { return e.Timestamp }

// RangeChanged is published when one of the three owned ranges (data,
// selection, view) is given new bounds. Range is one of the Range*
// identifiers above.
type RangeChanged struct {
	Timestamp time.Time `json:"timestamp"`
	Range     string    `json:"range"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func (e RangeChanged) EventType() string         { return TypeRangeChanged }
func (e RangeChanged) EventTimestamp() time.Time { return e.Timestamp }

// PlaybackStarted is published when a playback run begins.
type PlaybackStarted struct {
	Timestamp time.Time `json:"timestamp"`
	Speed     float64   `json:"speed"`
	From      time.Time `json:"from"`
}

func (e PlaybackStarted) EventType() string         { return TypePlaybackStarted }
func (e PlaybackStarted) EventTimestamp() time.Time { return e.Timestamp }

// PlaybackStopped is published when playback ends. Auto is true when the
// cursor reached the selection end and playback stopped itself.
type PlaybackStopped struct {
	Timestamp time.Time `json:"timestamp"`
	Cursor    time.Time `json:"cursor"`
	Auto      bool      `json:"auto"`
}

func (e PlaybackStopped) EventType() string         { return TypePlaybackStopped }
func (e PlaybackStopped) EventTimestamp() time.Time { return e.Timestamp }
