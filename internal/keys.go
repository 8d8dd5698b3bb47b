package internal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Clear    key.Binding
	Cancel   key.Binding
	AddRow   key.Binding
	Remove   key.Binding
	Submit   key.Binding
	Withdraw key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.AddRow, k.Remove, k.Submit, k.PrevWeek, k.NextWeek, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Enter, k.Clear, k.Cancel},
		{k.AddRow, k.Remove, k.Submit, k.Withdraw},
		{k.PrevWeek, k.NextWeek, k.Today, k.Refresh},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l", "tab"),
		key.WithHelp("→/l", "right"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "edit/cycle"),
	),
	Clear: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("del", "clear"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	AddRow: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add row"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "remove row"),
	),
	Submit: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "submit week"),
	),
	Withdraw: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "withdraw"),
	),
	PrevWeek: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev week"),
	),
	NextWeek: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next week"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "this week"),
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
