package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Add    key.Binding
	Panel  key.Binding
	Reload key.Binding
	Quit   key.Binding

	// ForceQuit works in every mode, forms included.
	ForceQuit key.Binding

	// forms and the action panel
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Choose  key.Binding
	Submit  key.Binding
	Back    key.Binding
	Dismiss key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Panel:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Choose:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "select item")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "ok")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Edit, k.Delete, k.Add, k.Panel, k.Reload}
}
