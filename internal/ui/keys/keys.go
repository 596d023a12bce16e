// Package keys holds the key bindings shared by every screen.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings
type KeyMap struct {
	Quit       key.Binding
	Back       key.Binding
	New        key.Binding
	NewProject key.Binding
	Enter      key.Binding
	Save       key.Binding
	Delete     key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Theme      key.Binding
	Help       key.Binding

	// View switcher
	Calendar key.Binding
	Board    key.Binding
	List     key.Binding

	// Sidebar project cursor
	PrevProject key.Binding
	NextProject key.Binding

	// Calendar navigation
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	PrevDay   key.Binding
	NextDay   key.Binding
	PrevWeek  key.Binding
	NextWeek  key.Binding

	// Dialog-only bindings
	Toggle     key.Binding
	DeleteTask key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		NewProject: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "new project"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete project"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "calendar"),
		),
		Board: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "board"),
		),
		List: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "list"),
		),
		PrevProject: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous project"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next project"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next day"),
		),
		PrevWeek: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous week"),
		),
		NextWeek: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next week"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		DeleteTask: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete task"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}
