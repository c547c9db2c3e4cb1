package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Reload    key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Search    key.Binding
	Kind      key.Binding
	Close     key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Backspace key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Kind:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "kind")),
		Close:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
		Delete:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
		Cancel:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		h := b.Help()
		if i > 0 {
			out += "  "
		}
		out += "[" + h.Key + "] " + h.Desc
	}
	return out
}
