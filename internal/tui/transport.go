package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/tln/internal/timeline"
	"github.com/Dicklesworthstone/tln/internal/util"
)

// renderTransport draws the header bar: app name, mode badge, and the
// playback indicator.
func (m Model) renderTransport() string {
	t := m.theme

	title := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true).
		Render("tln")

	badge := m.modeBadge()

	state := "stopped"
	stateColor := t.Subtext
	if m.snap.Playing {
		state = "▶ " + util.FormatSpeed(m.snap.Speed)
		stateColor = t.Playback
	}
	play := lipgloss.NewStyle().Foreground(stateColor).Render(state)

	return " " + title + "  " + badge + "  " + play
}

func (m Model) modeBadge() string {
	t := m.theme
	if m.snap.Mode == timeline.RemoteLive {
		return lipgloss.NewStyle().
			Foreground(t.Base).
			Background(t.Live).
			Padding(0, 1).
			Render("LIVE")
	}
	return lipgloss.NewStyle().
		Foreground(t.Base).
		Background(t.Playback).
		Padding(0, 1).
		Render("PLAYBACK")
}
