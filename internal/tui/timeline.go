package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/util"
)

const (
	trackRune     = '─'
	selectionRune = '━'
	cursorRune    = '┃'
	dataEdgeRune  = '│'
)

// renderTimeline draws the view range as a one-line track with the
// selection overlaid, the cursor marked, and a label ruler underneath.
func (m Model) renderTimeline() string {
	width := m.width - 4
	if width < 16 {
		width = 16
	}

	view := m.snap.View.Range()
	track := renderTrack(width, view, m.snap.Selection.Range(), m.snap.Data.Range(), m.snap.Cursor, m.theme)
	ruler := renderRuler(width, view, m.snap.Data.Range().Start)

	body := lipgloss.JoinVertical(lipgloss.Left, track, lipgloss.NewStyle().Foreground(m.theme.Subtext).Render(ruler))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Surface).
		Padding(0, 1).
		Render(body)
}

// column maps t onto a 0..width-1 cell within view; ok is false when t
// falls outside the view or the view is degenerate.
func column(t time.Time, view timeline.TimeRange, width int) (int, bool) {
	dur, valid := view.Duration()
	if !valid || dur <= 0 {
		return 0, false
	}
	if t.Before(view.Start) || t.After(view.End) {
		return 0, false
	}
	frac := float64(t.Sub(view.Start)) / float64(dur)
	col := int(frac * float64(width-1))
	if col < 0 {
		col = 0
	}
	if col > width-1 {
		col = width - 1
	}
	return col, true
}

func renderTrack(width int, view, selection, data timeline.TimeRange, cursor time.Time, t Theme) string {
	cells := make([]rune, width)
	styles := make([]lipgloss.Style, width)

	base := lipgloss.NewStyle().Foreground(t.Surface)
	for i := range cells {
		cells[i] = trackRune
		styles[i] = base
	}

	// Selection overlay, clipped to the view.
	selStyle := lipgloss.NewStyle().Foreground(t.Selection)
	if s, okS := column(clampTime(selection.Start, view), view, width); okS {
		if e, okE := column(clampTime(selection.End, view), view, width); okE && selection.End.After(view.Start) && selection.Start.Before(view.End) {
			for i := s; i <= e; i++ {
				cells[i] = selectionRune
				styles[i] = selStyle
			}
		}
	}

	// Data range edges.
	edgeStyle := lipgloss.NewStyle().Foreground(t.Live)
	if c, ok := column(data.Start, view, width); ok {
		cells[c] = dataEdgeRune
		styles[c] = edgeStyle
	}
	if c, ok := column(data.End, view, width); ok {
		cells[c] = dataEdgeRune
		styles[c] = edgeStyle
	}

	// Cursor wins over everything beneath it.
	if c, ok := column(cursor, view, width); ok {
		cells[c] = cursorRune
		styles[c] = lipgloss.NewStyle().Foreground(t.Cursor).Bold(true)
	}

	var b strings.Builder
	for i, r := range cells {
		b.WriteString(styles[i].Render(string(r)))
	}
	return b.String()
}

func clampTime(t time.Time, r timeline.TimeRange) time.Time {
	if t.Before(r.Start) {
		return r.Start
	}
	if t.After(r.End) {
		return r.End
	}
	return t
}

// renderRuler places start, middle, and end offset labels under the track.
func renderRuler(width int, view timeline.TimeRange, anchor time.Time) string {
	start := util.FormatOffset(view.Start.Sub(anchor))
	end := util.FormatOffset(view.End.Sub(anchor))
	mid := util.FormatOffset(view.Mid().Sub(anchor))

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	placeLabel(line, 0, start)
	placeLabel(line, (width-runewidth.StringWidth(mid))/2, mid)
	placeLabel(line, width-runewidth.StringWidth(end), end)
	return string(line)
}

func placeLabel(line []rune, at int, label string) {
	if at < 0 {
		at = 0
	}
	for i, r := range []rune(label) {
		pos := at + i
		if pos >= len(line) {
			return
		}
		line[pos] = r
	}
}
