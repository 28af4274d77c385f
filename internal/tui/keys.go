package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the dashboard keybindings.
type KeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	PlayPause     key.Binding
	ToggleMode    key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	PanLeft       key.Binding
	PanRight      key.Binding
	ZoomData      key.Binding
	ZoomSelection key.Binding
	CenterCursor  key.Binding
	MarkStart     key.Binding
	MarkEnd       key.Binding
	SaveBookmark  key.Binding
	SpeedUp       key.Binding
	SpeedDown     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		PlayPause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/stop")),
		ToggleMode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "live/playback")),
		ZoomIn:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		PanLeft:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "pan back")),
		PanRight:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "pan forward")),
		ZoomData:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "zoom to data")),
		ZoomSelection: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "zoom to selection")),
		CenterCursor:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center on cursor")),
		MarkStart:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "selection start = cursor")),
		MarkEnd:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "selection end = cursor")),
		SaveBookmark:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark selection")),
		SpeedUp:       key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "faster")),
		SpeedDown:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "slower")),
	}
}

// helpEntries returns bindings in display order for the help overlay.
func (k KeyMap) helpEntries() []key.Binding {
	return []key.Binding{
		k.PlayPause, k.ToggleMode, k.SpeedUp, k.SpeedDown,
		k.ZoomIn, k.ZoomOut, k.PanLeft, k.PanRight,
		k.ZoomData, k.ZoomSelection, k.CenterCursor,
		k.MarkStart, k.MarkEnd, k.SaveBookmark,
		k.Help, k.Quit,
	}
}
