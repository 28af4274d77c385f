// Package tui renders the timeline dashboard: a ruler and track for the
// view range, a transport line for mode and playback state, and a status
// bar. It drives the navigator through its public operations only.
package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines the dashboard color palette.
type Theme struct {
	Base      lipgloss.Color // Background
	Surface   lipgloss.Color // Elevated background
	Text      lipgloss.Color // Primary text
	Subtext   lipgloss.Color // Secondary text
	Accent    lipgloss.Color // Headers and focus
	Cursor    lipgloss.Color // Timeline cursor marker
	Selection lipgloss.Color // Selection span
	Live      lipgloss.Color // Live mode badge
	Playback  lipgloss.Color // Playback mode badge
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// Dark is the default dark palette (Catppuccin Mocha derived).
var Dark = Theme{
	Base:      lipgloss.Color("#1e1e2e"),
	Surface:   lipgloss.Color("#313244"),
	Text:      lipgloss.Color("#cdd6f4"),
	Subtext:   lipgloss.Color("#a6adc8"),
	Accent:    lipgloss.Color("#89b4fa"),
	Cursor:    lipgloss.Color("#f38ba8"),
	Selection: lipgloss.Color("#f9e2af"),
	Live:      lipgloss.Color("#a6e3a1"),
	Playback:  lipgloss.Color("#cba6f7"),
	Warning:   lipgloss.Color("#f9e2af"),
	Error:     lipgloss.Color("#f38ba8"),
}

// Light is the light palette (Catppuccin Latte derived).
var Light = Theme{
	Base:      lipgloss.Color("#eff1f5"),
	Surface:   lipgloss.Color("#ccd0da"),
	Text:      lipgloss.Color("#4c4f69"),
	Subtext:   lipgloss.Color("#6c6f85"),
	Accent:    lipgloss.Color("#1e66f5"),
	Cursor:    lipgloss.Color("#d20f39"),
	Selection: lipgloss.Color("#df8e1d"),
	Live:      lipgloss.Color("#40a02b"),
	Playback:  lipgloss.Color("#8839ef"),
	Warning:   lipgloss.Color("#df8e1d"),
	Error:     lipgloss.Color("#d20f39"),
}

// Plain has no colors, for NO_COLOR terminals.
var Plain = Theme{}

// NoColorEnabled reports whether color output is disabled by environment.
func NoColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return os.Getenv("TLN_NO_COLOR") != ""
}

// FromName resolves a theme by config name.
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "none":
		return Plain
	case "light", "latte":
		return Light
	case "dark", "mocha":
		return Dark
	default:
		return autoTheme()
	}
}

var detectDarkBackground = func() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = Dark
		defer func() {
			if recover() != nil {
				cachedAutoTheme = Dark
			}
		}()
		if !detectDarkBackground() {
			cachedAutoTheme = Light
		}
	})
	return cachedAutoTheme
}
