package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	esc     key.Binding
	tab     key.Binding
	backtab key.Binding
	quit    key.Binding
	logout  key.Binding
	refresh key.Binding
	edit    key.Binding
	role    key.Binding
	status  key.Binding
	filter  key.Binding
	copy    key.Binding
	about   key.Binding
	next    key.Binding
	prev    key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k")),
	down:    key.NewBinding(key.WithKeys("down", "j")),
	enter:   key.NewBinding(key.WithKeys("enter")),
	esc:     key.NewBinding(key.WithKeys("esc")),
	tab:     key.NewBinding(key.WithKeys("tab")),
	backtab: key.NewBinding(key.WithKeys("shift+tab")),
	quit:    key.NewBinding(key.WithKeys("q")),
	logout:  key.NewBinding(key.WithKeys("l")),
	refresh: key.NewBinding(key.WithKeys("g")),
	edit:    key.NewBinding(key.WithKeys("e")),
	role:    key.NewBinding(key.WithKeys("r")),
	status:  key.NewBinding(key.WithKeys("s")),
	filter:  key.NewBinding(key.WithKeys("f")),
	copy:    key.NewBinding(key.WithKeys("c")),
	about:   key.NewBinding(key.WithKeys("v")),
	next:    key.NewBinding(key.WithKeys("right", "n")),
	prev:    key.NewBinding(key.WithKeys("left", "p")),
}
