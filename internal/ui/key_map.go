package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	prevPage  key.Binding
	nextPage  key.Binding
	enter     key.Binding
	toggle    key.Binding
	selectAll key.Binding
	clear     key.Binding
	submit    key.Binding
	export    key.Binding
	search    key.Binding
	category  key.Binding
	layout    key.Binding
	favorite  key.Binding
	rate      key.Binding
	cooked    key.Binding
	dismiss   key.Binding
	back      key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prevPage:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		nextPage:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/toggle")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		selectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		clear:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		submit:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shopping list")),
		export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		category:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		layout:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cards/table")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		rate:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),
		cooked:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "cooked")),
		dismiss:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.submit, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.prevPage, k.nextPage},
		{k.enter, k.toggle, k.selectAll, k.clear, k.submit, k.export},
		{k.search, k.category, k.layout},
		{k.favorite, k.rate, k.cooked, k.dismiss},
		{k.back, k.help, k.quit},
	}
}
