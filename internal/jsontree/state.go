package jsontree

import (
	"strconv"
)

// Key identifies a child within its immediate parent: an object member name
// or an array index.
type Key struct {
	Name  string
	Index int
	index bool
}

// NameKey addresses an object member.
func NameKey(name string) Key { return Key{Name: name} }

// IndexKey addresses an array element.
func IndexKey(i int) Key { return Key{Index: i, index: true} }

// IsIndex reports whether k addresses an array element.
func (k Key) IsIndex() bool { return k.index }

// Label is the text shown in a row: the member name with control
// characters escaped, or "[i]" for elements.
func (k Key) Label() string {
	if k.index {
		return "[" + strconv.Itoa(k.Index) + "]"
	}
	return EscapeControl(k.Name)
}

func (k Key) String() string { return k.Label() }

// State maps the direct children of one container to their expanded flag.
// Only expanded children are stored, so a missing entry reads as collapsed
// and two states are equal exactly when they expand the same children.
type State map[Key]bool

// Expanded reports the flag for k.
func (s State) Expanded(k Key) bool { return s[k] }

// Equal reports whether s and o expand the same children.
func (s State) Equal(o State) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if !o[k] {
			return false
		}
	}
	return true
}

// Toggle returns a copy of s with the flag at k inverted. s is not modified.
func Toggle(s State, k Key) State {
	out := make(State, len(s)+1)
	for key, v := range s {
		if v {
			out[key] = true
		}
	}
	if out[k] {
		delete(out, k)
	} else {
		out[k] = true
	}
	return out
}

// Expansion is the expansion record owned by one container instance. It
// holds the State of the container's direct children plus, for each expanded
// child, that child's own Expansion. Collapsing a child drops its record, so
// expanding it again starts from a fully collapsed state.
type Expansion struct {
	state    State
	children map[Key]*Expansion
}

// NewExpansion returns an empty, fully collapsed record.
func NewExpansion() *Expansion {
	return &Expansion{state: State{}, children: map[Key]*Expansion{}}
}

// State returns a copy of the direct-children state.
func (e *Expansion) State() State {
	out := make(State, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// Expanded reports whether child k is expanded.
func (e *Expansion) Expanded(k Key) bool {
	if e == nil {
		return false
	}
	return e.state.Expanded(k)
}

// Child returns the record owned by expanded child k, or nil when k is
// collapsed.
func (e *Expansion) Child(k Key) *Expansion {
	if e == nil {
		return nil
	}
	return e.children[k]
}

// Toggle inverts the flag of child k and returns the new flag.
func (e *Expansion) Toggle(k Key) bool {
	e.state = Toggle(e.state, k)
	if e.state[k] {
		e.children[k] = NewExpansion()
		return true
	}
	delete(e.children, k)
	return false
}

// Expand sets child k to expanded, keeping an existing record.
func (e *Expansion) Expand(k Key) *Expansion {
	if !e.state[k] {
		e.Toggle(k)
	}
	return e.children[k]
}

// Reset collapses every child.
func (e *Expansion) Reset() {
	e.state = State{}
	e.children = map[Key]*Expansion{}
}

// ExpandAll expands every expandable descendant of n.
func (e *Expansion) ExpandAll(n Node) {
	for _, k := range n.ChildKeys() {
		child, _ := n.Child(k)
		if !child.Expandable() {
			continue
		}
		e.Expand(k).ExpandAll(child)
	}
}

// Count returns the number of expanded containers at or below e.
func (e *Expansion) Count() int {
	if e == nil {
		return 0
	}
	total := len(e.state)
	for _, c := range e.children {
		total += c.Count()
	}
	return total
}
