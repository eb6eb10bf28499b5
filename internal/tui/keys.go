package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dangit/internal/loop"
)

type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	Tab      key.Binding
	Open     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "next"),
	),
	Previous: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "previous"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch tab"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("enter/o", "open"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Tab, k.Open, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// event maps a key press to a dashboard event. Unbound keys map to
// loop.KeyNone.
func (k keyMap) event(msg tea.KeyMsg) loop.Event {
	switch {
	case key.Matches(msg, k.Next):
		return loop.Event{Key: loop.KeyMoveNext}
	case key.Matches(msg, k.Previous):
		return loop.Event{Key: loop.KeyMovePrevious}
	case key.Matches(msg, k.Tab):
		return loop.Event{Key: loop.KeyNextTab}
	case key.Matches(msg, k.Open):
		return loop.Event{Key: loop.KeyActivate}
	case key.Matches(msg, k.Quit):
		return loop.Event{Key: loop.KeyQuit}
	default:
		return loop.Event{Key: loop.KeyNone}
	}
}
