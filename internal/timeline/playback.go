package timeline

import (
	"fmt"
	"time"

	"github.com/Dicklesworthstone/tln/internal/events"
)

// playbackRun is the state of one playback animation. A new run is
// allocated per Play call; ticks that arrive after the run is detached
// from the navigator are discarded.
type playbackRun struct {
	speed       float64
	startCursor time.Time
	wallStart   time.Time
	ticker      *time.Ticker
	quit        chan struct{}
	done        chan struct{}
}

// IsPlaying reports whether a playback animation is active.
func (n *Navigator) IsPlaying() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playback != nil
}

// PlaybackSpeed returns the speed of the active playback run, or 0 when
// not playing.
func (n *Navigator) PlaybackSpeed() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.playback == nil {
		return 0
	}
	return n.playback.speed
}

// Play starts the playback animation from the selection start at the
// given wall-clock multiplier. It fails with ErrInvalidMode outside
// playback mode and is a no-op when already playing.
//
// Each tick the cursor moves to selectionStart + elapsedWall*speed. When
// the candidate reaches the selection end, playback stops itself and the
// cursor is clamped there. Negative speeds run in reverse; a speed of 0
// never advances the cursor.
func (n *Navigator) Play(speed float64) error {
	n.mu.Lock()
	if n.mode != ModePlayback {
		mode := n.mode
		n.mu.Unlock()
		return fmt.Errorf("%w: play requires playback mode, currently %s", ErrInvalidMode, mode)
	}
	if n.playback != nil {
		n.mu.Unlock()
		return nil
	}

	p := &playbackRun{
		speed:       speed,
		startCursor: n.selection.Start,
		wallStart:   n.now(),
		ticker:      time.NewTicker(n.tick),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	n.playback = p
	ev := events.PlaybackStarted{Timestamp: n.now(), Speed: speed, From: p.startCursor}
	n.mu.Unlock()

	n.emit([]events.BusEvent{ev})
	go n.runPlayback(p)
	return nil
}

// StopPlaying stops the playback animation if one is active. It is
// idempotent and safe to call at any time; once it returns, no further
// tick from the stopped run can be observed.
func (n *Navigator) StopPlaying() {
	n.mu.Lock()
	p := n.playback
	n.playback = nil
	cursor := n.cursor
	n.mu.Unlock()

	if p == nil {
		return
	}
	close(p.quit)
	<-p.done
	n.emit([]events.BusEvent{events.PlaybackStopped{Timestamp: n.now(), Cursor: cursor, Auto: false}})
}

func (n *Navigator) runPlayback(p *playbackRun) {
	defer close(p.done)
	defer p.ticker.Stop()
	for {
		select {
		case <-p.quit:
			return
		case <-p.ticker.C:
			if !n.step(p) {
				return
			}
		}
	}
}

// step advances the cursor for one playback tick. It returns false when
// the run has ended, either by reaching the selection end or by being
// detached via StopPlaying.
func (n *Navigator) step(p *playbackRun) bool {
	n.mu.Lock()
	if n.playback != p {
		// Detached by StopPlaying or SetMode; this tick raced the stop.
		n.mu.Unlock()
		return false
	}

	elapsed := n.now().Sub(p.wallStart)
	candidate := p.startCursor.Add(time.Duration(float64(elapsed) * p.speed))

	var evs []events.BusEvent
	if candidate.Before(n.selection.End) {
		evs = n.setCursorLocked(candidate)
		if dur, ok := n.view.Duration(); ok && candidate.After(n.view.End) {
			// Pan forward one window: the view keeps its duration and its
			// end catches up to the cursor.
			n.view = TimeRange{Start: candidate.Add(-dur), End: candidate}
			evs = append(evs, n.rangeEventLocked(events.RangeView, n.view))
		}
		n.mu.Unlock()
		n.emit(evs)
		return true
	}

	// Auto-stop: clamp at the selection end and end the run.
	evs = n.setCursorLocked(n.selection.End)
	n.playback = nil
	evs = append(evs, events.PlaybackStopped{Timestamp: n.now(), Cursor: n.cursor, Auto: true})
	n.mu.Unlock()
	n.emit(evs)
	return false
}
