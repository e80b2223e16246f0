package ui

import tea "charm.land/bubbletea/v2"

// ChildModel is a pane owned by the root Model. The root routes key
// messages to the focused child and composes the children's views.
type ChildModel interface {
	Update(msg tea.Msg) (ChildModel, tea.Cmd)
	View() string
}

// ModelWithSize is implemented by children that respond to resize events.
type ModelWithSize interface {
	SetSize(width, height int)
}

// ModelWithFocus is implemented by children that can hold keyboard focus.
type ModelWithFocus interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}
