package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Search  key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Clear   key.Binding
	Confirm key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Search, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		k.ShortHelp(),
	}
}

// inputHelp is the key map shown while a text field is focused.
type inputHelp struct{}

func (inputHelp) ShortHelp() []key.Binding  { return []key.Binding{keys.Submit, keys.Cancel} }
func (inputHelp) FullHelp() [][]key.Binding { return [][]key.Binding{inputHelp{}.ShortHelp()} }
