package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Click      key.Binding
	Rename     key.Binding
	Add        key.Binding
	Delete     key.Binding
	Reset      key.Binding
	Filter     key.Binding
	Active     key.Binding
	Search     key.Binding
	Info       key.Binding
	Context    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	ShowAllKey key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:     key.NewBinding(key.WithKeys("alt+up", "K"), key.WithHelp("alt+↑", "move up")),
		MoveDown:   key.NewBinding(key.WithKeys("alt+down", "J"), key.WithHelp("alt+↓", "move down")),
		Click:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Rename:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add group")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete group")),
		Reset:      key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filtered")),
		Active:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "active")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find field")),
		Info:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "field info")),
		Context:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "grid/modal")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		PageUp:     key.NewBinding(key.WithKeys("pgup")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown")),
		ShowAllKey: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "more keys")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.MoveUp, k.MoveDown, k.Add, k.Rename, k.Delete, k.Search, k.Context, k.ShowAllKey, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Click, k.MoveUp, k.MoveDown},
		{k.Add, k.Rename, k.Delete, k.Reset},
		{k.Active, k.Filter, k.Search, k.Info},
		{k.Context, k.ShowAllKey, k.Cancel, k.Quit},
	}
}
