package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab           key.Binding
	ShiftTab      key.Binding
	Quit          key.Binding
	Help          key.Binding
	Filter        key.Binding
	StartCategory key.Binding
	PauseCategory key.Binding
	ResetCategory key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Filter, k.StartCategory, k.PauseCategory, k.ResetCategory},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle category"),
		),
		StartCategory: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "start category"),
		),
		PauseCategory: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pause category"),
		),
		ResetCategory: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset category"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
