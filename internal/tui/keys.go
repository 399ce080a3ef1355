package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding. It implements help.KeyMap.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	AllOff      key.Binding
	QuickToggle key.Binding
	LeftClick   key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "navigate"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "toggle"),
	),
	AllOff: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all off"),
	),
	QuickToggle: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "quick toggle"),
	),
	LeftClick: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "left-click pref"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp is shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.AllOff, k.Refresh, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Toggle, k.AllOff},
		{k.QuickToggle, k.LeftClick, k.Refresh},
		{k.Help, k.Quit},
	}
}
