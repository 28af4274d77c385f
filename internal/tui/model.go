// Package tui implements the interactive timeline dashboard.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/tln/internal/bookmark"
	"github.com/Dicklesworthstone/tln/internal/feed"
	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/util"
)

// DefaultRefresh is how often the dashboard re-reads navigator state.
const DefaultRefresh = 100 * time.Millisecond

// panFraction is the share of the view width moved by one pan keypress.
const panFraction = 0.25

type tickMsg time.Time

// ThemeChangedMsg swaps the active theme. Sent by the config watcher
// when the ui.theme setting changes on disk.
type ThemeChangedMsg struct {
	Theme Theme
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	nav       *timeline.Navigator
	feed      *feed.Feed
	bookmarks *bookmark.Store

	keys    KeyMap
	theme   Theme
	refresh time.Duration

	snap   timeline.Snapshot
	width  int
	height int

	showHelp bool
	status   string // transient message shown in the footer
	statusAt time.Time

	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithFeed attaches a live sample feed whose latest values are shown
// in the data panel.
func WithFeed(f *feed.Feed) Option {
	return func(m *Model) { m.feed = f }
}

// WithBookmarks attaches a bookmark store used by the save-bookmark key.
func WithBookmarks(s *bookmark.Store) Option {
	return func(m *Model) { m.bookmarks = s }
}

// WithTheme overrides the auto-detected theme.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithRefresh overrides the dashboard redraw interval.
func WithRefresh(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.refresh = d
		}
	}
}

// NewModel builds a dashboard over nav.
func NewModel(nav *timeline.Navigator, opts ...Option) Model {
	m := Model{
		nav:     nav,
		keys:    DefaultKeyMap(),
		theme:   autoTheme(),
		refresh: DefaultRefresh,
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.snap = nav.Remote().Snapshot()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.snap = m.nav.Remote().Snapshot()
		if m.status != "" && time.Since(m.statusAt) > 3*time.Second {
			m.status = ""
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.tick()

	case ThemeChangedMsg:
		m.theme = msg.Theme
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.snap = m.nav.Remote().Snapshot()
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, k.PlayPause):
		if m.snap.Playing {
			m.nav.StopPlaying()
		} else if err := m.nav.Play(playSpeed(m.snap.Speed)); err != nil {
			m.flash(err.Error())
		}

	case key.Matches(msg, k.ToggleMode):
		if m.snap.Mode == timeline.RemoteLive {
			m.nav.SetMode(timeline.ModePlayback)
		} else {
			m.nav.SetMode(timeline.ModeLive)
		}

	case key.Matches(msg, k.SpeedUp):
		m.adjustSpeed(2)

	case key.Matches(msg, k.SpeedDown):
		m.adjustSpeed(0.5)

	case key.Matches(msg, k.ZoomIn):
		m.nav.ZoomIn()

	case key.Matches(msg, k.ZoomOut):
		m.nav.ZoomOut()

	case key.Matches(msg, k.PanLeft):
		m.pan(-1)

	case key.Matches(msg, k.PanRight):
		m.pan(1)

	case key.Matches(msg, k.ZoomData):
		m.nav.ZoomToDataRange()

	case key.Matches(msg, k.ZoomSelection):
		m.nav.ZoomToSelection()

	case key.Matches(msg, k.CenterCursor):
		dur, ok := m.snap.View.Range().Duration()
		if !ok {
			break
		}
		half := dur / 2
		c := m.snap.Cursor
		if err := m.nav.Zoom(c.Add(-half), c.Add(dur-half)); err != nil {
			m.flash(err.Error())
		}

	case key.Matches(msg, k.MarkStart):
		sel := m.snap.Selection.Range()
		end := sel.End
		if !end.After(m.snap.Cursor) {
			end = m.snap.Cursor.Add(time.Second)
		}
		if err := m.nav.SetSelection(m.snap.Cursor, end); err != nil {
			m.flash(err.Error())
		}

	case key.Matches(msg, k.MarkEnd):
		sel := m.snap.Selection.Range()
		start := sel.Start
		if !start.Before(m.snap.Cursor) {
			start = m.snap.Cursor.Add(-time.Second)
		}
		if err := m.nav.SetSelection(start, m.snap.Cursor); err != nil {
			m.flash(err.Error())
		}

	case key.Matches(msg, k.SaveBookmark):
		m.saveBookmark()
	}

	m.snap = m.nav.Remote().Snapshot()
	return m, nil
}

func (m *Model) pan(direction int) {
	dur, ok := m.snap.View.Range().Duration()
	if !ok {
		return
	}
	step := time.Duration(float64(dur) * panFraction)
	m.nav.Pan(time.Duration(direction) * step)
}

func (m *Model) adjustSpeed(factor float64) {
	if !m.snap.Playing {
		return
	}
	speed := m.snap.Speed * factor
	m.nav.StopPlaying()
	if err := m.nav.Play(speed); err != nil {
		m.flash(err.Error())
		return
	}
	m.flash("speed " + util.FormatSpeed(speed))
}

func (m *Model) saveBookmark() {
	if m.bookmarks == nil {
		m.flash("no bookmark store configured")
		return
	}
	sel := m.snap.Selection.Range()
	name := fmt.Sprintf("mark-%s", time.Now().Format("20060102-150405"))
	if err := m.bookmarks.Set(bookmark.Bookmark{
		Name:  name,
		Start: sel.Start,
		End:   sel.End,
	}); err != nil {
		m.flash(err.Error())
		return
	}
	m.flash("saved bookmark " + name)
}

func (m *Model) flash(s string) {
	m.status = s
	m.statusAt = time.Now()
}

// playSpeed picks the speed for a fresh playback run, reusing the last
// speed when one is known.
func playSpeed(last float64) float64 {
	if last != 0 {
		return last
	}
	return 1.0
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderTransport())
	sections = append(sections, m.renderTimeline())
	sections = append(sections, m.renderDetails())
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderDetails() string {
	t := m.theme
	label := lipgloss.NewStyle().Foreground(t.Subtext)
	value := lipgloss.NewStyle().Foreground(t.Text)

	anchor := m.snap.Data.Range().Start
	lines := []string{
		label.Render("cursor    ") + value.Render(util.FormatOffset(m.snap.Cursor.Sub(anchor))),
		label.Render("data      ") + value.Render(rangeLabel(m.snap.Data.Range(), anchor)),
		label.Render("selection ") + value.Render(rangeLabel(m.snap.Selection.Range(), anchor)),
		label.Render("view      ") + value.Render(rangeLabel(m.snap.View.Range(), anchor)),
	}
	if m.feed != nil {
		if s, ok := m.feed.LatestSample(); ok {
			lines = append(lines, label.Render("feed      ")+value.Render(fmt.Sprintf("%.3f @ %s", s.Value, util.FormatOffset(s.Timestamp.Sub(anchor)))))
		}
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func rangeLabel(r timeline.TimeRange, anchor time.Time) string {
	start := util.FormatOffset(r.Start.Sub(anchor))
	end := util.FormatOffset(r.End.Sub(anchor))
	if d, ok := r.Duration(); ok {
		return fmt.Sprintf("[%s .. %s] (%s)", start, end, util.FormatOffset(d))
	}
	return fmt.Sprintf("[%s .. %s]", start, end)
}

func (m Model) renderHelp() string {
	t := m.theme
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtext)

	var s string
	for i, b := range m.keys.helpEntries() {
		if i > 0 {
			s += "  "
		}
		h := b.Help()
		s += keyStyle.Render(h.Key) + " " + descStyle.Render(h.Desc)
	}
	wrapped := wordwrap.String(s, maxInt(20, m.width-2))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Surface).
		Padding(0, 1).
		Render(wrapped)
}

func (m Model) renderFooter() string {
	t := m.theme
	hint := lipgloss.NewStyle().Foreground(t.Subtext).Render("? help · q quit")
	if m.status == "" {
		return " " + hint
	}
	msg := lipgloss.NewStyle().Foreground(t.Warning).Render(m.status)
	return " " + msg + "  " + hint
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
