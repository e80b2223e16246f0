package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonpeek/internal/history"
)

// fetchRequestMsg asks the root model to fetch an address.
type fetchRequestMsg struct{ Address string }

// historyRemoveMsg asks the root model to forget an address.
type historyRemoveMsg struct{ Address string }

// HistoryModel is the URL history list drawn below the tree.
type HistoryModel struct {
	entries []history.Entry
	cursor  int
	width   int
	height  int
	focused bool
	st      styles
}

var (
	_ ChildModel     = (*HistoryModel)(nil)
	_ ModelWithSize  = (*HistoryModel)(nil)
	_ ModelWithFocus = (*HistoryModel)(nil)
)

// NewHistoryModel returns an empty list.
func NewHistoryModel() *HistoryModel {
	return &HistoryModel{width: 80, height: 5}
}

// SetEntries replaces the list, keeping the cursor in range.
func (h *HistoryModel) SetEntries(entries []history.Entry) {
	h.entries = entries
	if h.cursor >= len(entries) {
		h.cursor = len(entries) - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

// Entries returns the listed addresses, newest first.
func (h *HistoryModel) Entries() []history.Entry { return h.entries }

// Len is the number of listed addresses.
func (h *HistoryModel) Len() int { return len(h.entries) }

func (h *HistoryModel) setStyles(st styles) { h.st = st }

func (h *HistoryModel) SetSize(width, height int) {
	h.width = width
	h.height = height
}

func (h *HistoryModel) Focus() tea.Cmd { h.focused = true; return nil }
func (h *HistoryModel) Blur()          { h.focused = false }
func (h *HistoryModel) Focused() bool  { return h.focused }

// Selected returns the address under the cursor.
func (h *HistoryModel) Selected() (string, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor].Address, true
}

// Update moves the cursor; enter re-fetches and d removes the selection.
func (h *HistoryModel) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	km, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return h, nil
	}
	switch km.String() {
	case "up", "k":
		if h.cursor > 0 {
			h.cursor--
		}
	case "down", "j":
		if h.cursor < len(h.entries)-1 {
			h.cursor++
		}
	case "enter":
		if addr, ok := h.Selected(); ok {
			return h, func() tea.Msg { return fetchRequestMsg{Address: addr} }
		}
	case "d", "delete":
		if addr, ok := h.Selected(); ok {
			return h, func() tea.Msg { return historyRemoveMsg{Address: addr} }
		}
	}
	return h, nil
}

// View draws the title and a window of entries around the cursor.
func (h *HistoryModel) View() string {
	if len(h.entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(h.st.rows.Header.Render("URL History"))
	rows := h.height - 1
	if rows < 1 {
		rows = 1
	}
	start := 0
	if h.cursor >= rows {
		start = h.cursor - rows + 1
	}
	end := start + rows
	if end > len(h.entries) {
		end = len(h.entries)
	}
	for i := start; i < end; i++ {
		b.WriteString("\n")
		line := runewidth.Truncate("  "+h.entries[i].Address, h.width, "…")
		if i == h.cursor && h.focused {
			b.WriteString(h.st.selected.Render(line))
			continue
		}
		b.WriteString(h.st.dim.Render(line))
	}
	return b.String()
}
