package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/Dicklesworthstone/tln/internal/events"
)

func TestZoom_SetsViewDirectly(t *testing.T) {
	t.Parallel()

	nav, _, rec := newTestNav(t)
	if err := nav.Zoom(at(100), at(200)); err != nil {
		t.Fatal(err)
	}
	view := nav.ViewRange()
	if !view.Start.Equal(at(100)) || !view.End.Equal(at(200)) {
		t.Errorf("view = %s", view)
	}

	evs := rec.all()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	rc, ok := evs[0].(events.RangeChanged)
	if !ok || rc.Range != events.RangeView {
		t.Errorf("expected a view RangeChanged, got %#v", evs[0])
	}
}

func TestZoom_RejectsMalformed(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.Zoom(at(0), at(10)); err != nil {
		t.Fatal(err)
	}

	if err := nav.Zoom(at(20), at(10)); !errors.Is(err, ErrMalformedRange) {
		t.Fatalf("expected ErrMalformedRange, got %v", err)
	}
	if err := nav.Zoom(InfinitePast, at(10)); !errors.Is(err, ErrMalformedRange) {
		t.Fatalf("expected ErrMalformedRange for non-finite bound, got %v", err)
	}

	view := nav.ViewRange()
	if !view.Start.Equal(at(0)) || !view.End.Equal(at(10)) {
		t.Error("rejected Zoom mutated the view")
	}
}

func TestZoomInOut_RoundTripsDuration(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.Zoom(at(0), at(90)); err != nil {
		t.Fatal(err)
	}

	nav.ZoomIn()
	if dur, _ := nav.ViewRange().Duration(); dur != 30*time.Second {
		t.Fatalf("ZoomIn duration = %s, want 30s", dur)
	}
	nav.ZoomOut()
	view := nav.ViewRange()
	if dur, _ := view.Duration(); dur != 90*time.Second {
		t.Errorf("round-trip duration = %s, want 90s", dur)
	}
	// The center-preserving path restores the original bounds exactly.
	if !view.Start.Equal(at(0)) || !view.End.Equal(at(90)) {
		t.Errorf("round-trip view = %s", view)
	}
}

func TestZoomInOut_RoundTripsOddNanoseconds(t *testing.T) {
	t.Parallel()

	// A duration that is a whole multiple of the zoom ratio but not an
	// even nanosecond count; scaling must work from the full duration, not
	// a pre-truncated half.
	nav, _, _ := newTestNav(t)
	end := at(90).Add(3 * time.Nanosecond)
	if err := nav.Zoom(at(0), end); err != nil {
		t.Fatal(err)
	}

	nav.ZoomIn()
	if dur, _ := nav.ViewRange().Duration(); dur != 30*time.Second+time.Nanosecond {
		t.Fatalf("ZoomIn duration = %d ns, want 30000000001", dur)
	}
	nav.ZoomOut()
	view := nav.ViewRange()
	if dur, _ := view.Duration(); dur != 90*time.Second+3*time.Nanosecond {
		t.Errorf("round-trip duration = %d ns, want 90000000003", dur)
	}
	if !view.Start.Equal(at(0)) || !view.End.Equal(end) {
		t.Errorf("round-trip view = %s", view)
	}
}

func TestZoomAroundCenter_Recenters(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.Zoom(at(0), at(100)); err != nil {
		t.Fatal(err)
	}

	nav.ZoomAroundCenter(0.5)
	view := nav.ViewRange()
	if !view.Start.Equal(at(25)) || !view.End.Equal(at(75)) {
		t.Errorf("view = %s, want [25s .. 75s]", view)
	}

	nav.ZoomAroundCenterTo(10 * time.Second)
	view = nav.ViewRange()
	if !view.Start.Equal(at(45)) || !view.End.Equal(at(55)) {
		t.Errorf("view = %s, want [45s .. 55s]", view)
	}
}

func TestZoomAroundCursor_Asymmetric(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.Zoom(at(0), at(100)); err != nil {
		t.Fatal(err)
	}
	nav.SetCursor(at(20))

	// Before-span 20s and after-span 80s each halve independently, so the
	// cursor keeps its off-center position.
	nav.ZoomAroundCursor(0.5)
	view := nav.ViewRange()
	if !view.Start.Equal(at(10)) || !view.End.Equal(at(60)) {
		t.Errorf("view = %s, want [10s .. 60s]", view)
	}
}

func TestZoomAroundCursorTo_CentersOnCursor(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	nav.SetCursor(at(50))
	nav.ZoomAroundCursorTo(20 * time.Second)
	view := nav.ViewRange()
	if !view.Start.Equal(at(40)) || !view.End.Equal(at(60)) {
		t.Errorf("view = %s, want [40s .. 60s]", view)
	}
}

func TestZoomToDataRange(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.SetDataRange(at(10), at(300)); err != nil {
		t.Fatal(err)
	}
	nav.ZoomToDataRange()
	view := nav.ViewRange()
	if !view.Start.Equal(at(10)) || !view.End.Equal(at(300)) {
		t.Errorf("view = %s", view)
	}
}

func TestZoomToSelection_AppliesPadding(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.SetSelection(at(100), at(200)); err != nil {
		t.Fatal(err)
	}
	nav.ZoomToSelection()
	// 100s selection with 0.1 padding adds 5s on each side.
	view := nav.ViewRange()
	if !view.Start.Equal(at(95)) || !view.End.Equal(at(205)) {
		t.Errorf("view = %s, want [95s .. 205s]", view)
	}
	sel := nav.SelectionRange()
	if !sel.Start.Equal(at(100)) || !sel.End.Equal(at(200)) {
		t.Error("ZoomToSelection mutated the selection")
	}
}

func TestPan(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	if err := nav.Zoom(at(10), at(20)); err != nil {
		t.Fatal(err)
	}
	nav.Pan(5 * time.Second)
	view := nav.ViewRange()
	if !view.Start.Equal(at(15)) || !view.End.Equal(at(25)) {
		t.Errorf("view = %s, want [15s .. 25s]", view)
	}
	nav.Pan(-10 * time.Second)
	view = nav.ViewRange()
	if !view.Start.Equal(at(5)) || !view.End.Equal(at(15)) {
		t.Errorf("view = %s, want [5s .. 15s]", view)
	}
}

func TestRemoteFacet(t *testing.T) {
	t.Parallel()

	nav, _, _ := newTestNav(t)
	remote := nav.Remote()

	snap := remote.Snapshot()
	if snap.Mode != RemoteLive {
		t.Errorf("mode = %v, want RemoteLive", snap.Mode)
	}

	remote.SetMode(RemotePlayback)
	remote.SetCursor(at(7))
	if err := remote.Zoom(at(0), at(50)); err != nil {
		t.Fatal(err)
	}

	snap = remote.Snapshot()
	if snap.Mode != RemotePlayback {
		t.Errorf("mode = %v, want RemotePlayback", snap.Mode)
	}
	if !snap.Cursor.Equal(at(7)) {
		t.Errorf("cursor = %s", snap.Cursor)
	}
	if !snap.View.Start.Equal(at(0)) || !snap.View.End.Equal(at(50)) {
		t.Errorf("view pair = %+v", snap.View)
	}
	if snap.Playing {
		t.Error("snapshot should report not playing")
	}
}
