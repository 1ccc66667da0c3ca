package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	edit    key.Binding
	save    key.Binding
	del     key.Binding
	add     key.Binding
	login   key.Binding
	refresh key.Binding
	next    key.Binding
	submit  key.Binding
	back    key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		edit:    key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit order")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save orders")),
		del:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add url")),
		login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.edit, k.save, k.del, k.add, k.login, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.edit, k.save},
		{k.del, k.add, k.login, k.refresh},
		{k.next, k.submit, k.back, k.quit},
	}
}
