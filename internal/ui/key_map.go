package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	search  key.Binding
	profile key.Binding
	login   key.Binding
	logout  key.Binding
	reload  key.Binding
	compose key.Binding
	submit  key.Binding
	next    key.Binding
	plus    key.Binding
	minus   key.Binding
	remove  key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		login:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log in")),
		logout:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "log out")),
		reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		compose: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "write review")),
		submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "post")),
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		plus:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "rating up")),
		minus:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "rating down")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete account")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.profile, k.login, k.logout},
		{k.compose, k.plus, k.minus, k.submit},
		{k.remove, k.yes, k.no, k.reload, k.quit},
	}
}
