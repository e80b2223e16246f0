package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonpeek/internal/formatter"
	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// TreeModel is the Viewer tab's tree pane: the header line followed by the
// visible rows of the document, with a cursor and a scroll window. A
// document that failed to decode is drawn as the error region instead.
type TreeModel struct {
	doc    *jsontree.Document
	rows   []jsontree.Row
	cursor int
	offset int

	width   int
	height  int
	indent  int
	focused bool
	st      styles
}

var (
	_ ChildModel     = (*TreeModel)(nil)
	_ ModelWithSize  = (*TreeModel)(nil)
	_ ModelWithFocus = (*TreeModel)(nil)
)

// NewTreeModel returns an empty pane.
func NewTreeModel(indent int) *TreeModel {
	if indent <= 0 {
		indent = 2
	}
	return &TreeModel{indent: indent, width: 80, height: 20}
}

// SetDocument replaces the displayed document and resets the cursor.
func (t *TreeModel) SetDocument(doc *jsontree.Document) {
	t.doc = doc
	t.cursor = 0
	t.offset = 0
	t.refresh()
}

// Document returns the displayed document, nil before the first load.
func (t *TreeModel) Document() *jsontree.Document { return t.doc }

// Rows returns the currently visible rows.
func (t *TreeModel) Rows() []jsontree.Row { return t.rows }

// Cursor returns the index of the selected row.
func (t *TreeModel) Cursor() int { return t.cursor }

func (t *TreeModel) setStyles(st styles) { t.st = st }

// SetSize sets the pane dimensions, header line included.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.clamp()
}

func (t *TreeModel) Focus() tea.Cmd { t.focused = true; return nil }
func (t *TreeModel) Blur()          { t.focused = false }
func (t *TreeModel) Focused() bool  { return t.focused }

// Selected returns the row under the cursor.
func (t *TreeModel) Selected() (jsontree.Row, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return jsontree.Row{}, false
	}
	return t.rows[t.cursor], true
}

// Update moves the cursor and toggles rows.
func (t *TreeModel) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	km, ok := msg.(tea.KeyPressMsg)
	if !ok || t.doc == nil {
		return t, nil
	}
	if !t.doc.OK() {
		t.scrollRaw(km.String())
		return t, nil
	}
	switch km.String() {
	case "up", "k":
		t.cursor--
	case "down", "j":
		t.cursor++
	case "pgup":
		t.cursor -= t.bodyHeight()
	case "pgdown":
		t.cursor += t.bodyHeight()
	case "home", "g":
		t.cursor = 0
	case "end", "G":
		t.cursor = len(t.rows) - 1
	case "enter", "space", " ":
		t.toggleSelected()
	case "right":
		if r, ok := t.Selected(); ok && r.Affordance == jsontree.AffordanceCollapsed {
			t.toggleSelected()
		}
	case "left":
		t.collapseOrParent()
	}
	t.clamp()
	return t, nil
}

// ExpandAll expands every container and keeps the cursor on its row.
func (t *TreeModel) ExpandAll() {
	if t.doc == nil {
		return
	}
	sel, _ := t.Selected()
	t.doc.ExpandAll()
	t.refresh()
	t.selectPath(sel.Path)
}

// CollapseAll collapses the whole document.
func (t *TreeModel) CollapseAll() {
	if t.doc == nil {
		return
	}
	sel, _ := t.Selected()
	t.doc.CollapseAll()
	t.refresh()
	if len(sel.Path) > 0 {
		t.selectPath(sel.Path[:1])
	}
}

func (t *TreeModel) toggleSelected() {
	r, ok := t.Selected()
	if !ok || !r.Expandable() {
		return
	}
	if t.doc.Toggle(r.Path) {
		t.refresh()
	}
}

func (t *TreeModel) collapseOrParent() {
	r, ok := t.Selected()
	if !ok {
		return
	}
	if r.Expanded() {
		t.toggleSelected()
		return
	}
	if len(r.Path) > 1 {
		t.selectPath(r.Path[:len(r.Path)-1])
	}
}

// selectPath moves the cursor to the row addressed by path, if visible.
func (t *TreeModel) selectPath(path []jsontree.Key) {
	for i, r := range t.rows {
		if samePath(r.Path, path) {
			t.cursor = i
			t.clamp()
			return
		}
	}
}

func samePath(a, b []jsontree.Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (t *TreeModel) refresh() {
	if t.doc == nil {
		t.rows = nil
		return
	}
	t.rows = t.doc.Rows()
	t.clamp()
}

// bodyHeight is the number of lines below the header.
func (t *TreeModel) bodyHeight() int {
	if t.height <= 1 {
		return 1
	}
	return t.height - 1
}

func (t *TreeModel) clamp() {
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	h := t.bodyHeight()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+h {
		t.offset = t.cursor - h + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func (t *TreeModel) scrollRaw(key string) {
	lines := strings.Count(t.doc.Raw(), "\n") + 1
	switch key {
	case "up", "k":
		t.offset--
	case "down", "j":
		t.offset++
	case "pgup":
		t.offset -= t.bodyHeight()
	case "pgdown":
		t.offset += t.bodyHeight()
	case "home", "g":
		t.offset = 0
	case "end", "G":
		t.offset = lines
	}
	if t.offset > lines-t.bodyHeight() {
		t.offset = lines - t.bodyHeight()
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View draws the pane.
func (t *TreeModel) View() string {
	if t.doc == nil {
		return t.st.dim.Render("No document loaded. Enter a URL and press enter.")
	}
	v := t.doc.View()
	if v.Failed {
		return t.errorView(v)
	}
	var b strings.Builder
	b.WriteString(t.st.rows.Header.Render(v.Header))
	if len(v.Rows) == 0 {
		b.WriteString("\n")
		text := v.RootValue
		if v.RootGlyph != "" {
			text = v.RootGlyph + " " + v.RootValue
		}
		b.WriteString(t.st.rows.Value(v.RootKind).Render(runewidth.Truncate(text, t.width, "…")))
		return b.String()
	}
	opts := formatter.RowOptions{Indent: t.indent, Width: t.width}
	end := t.offset + t.bodyHeight()
	if end > len(t.rows) {
		end = len(t.rows)
	}
	for i := t.offset; i < end; i++ {
		b.WriteString("\n")
		if i == t.cursor && t.focused {
			plain := formatter.RenderRow(t.rows[i], formatter.Styles{}, opts)
			pad := t.width - runewidth.StringWidth(plain)
			if pad > 0 {
				plain += strings.Repeat(" ", pad)
			}
			b.WriteString(t.st.selected.Render(plain))
			continue
		}
		b.WriteString(formatter.RenderRow(t.rows[i], t.st.rows, opts))
	}
	return b.String()
}

func (t *TreeModel) errorView(v jsontree.View) string {
	var b strings.Builder
	b.WriteString(t.st.rows.Error.Render(v.Caption))
	lines := strings.Split(jsontree.EscapeControlLines(v.Raw), "\n")
	end := t.offset + t.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	for i := t.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(runewidth.Truncate(lines[i], t.width, "…"))
	}
	return b.String()
}

// copyText returns the text copied for the selected row: its path, or its
// value (strings unquoted, containers as indented JSON).
func (t *TreeModel) copyText(value bool) (string, bool) {
	r, ok := t.Selected()
	if !ok {
		return "", false
	}
	if !value {
		return jsontree.FormatPath(r.Path), true
	}
	if r.Kind == jsontree.KindString {
		return r.Node.StringValue(), true
	}
	if !r.Node.IsContainer() {
		text, _ := jsontree.LeafText(r.Node)
		return text, true
	}
	out, err := formatter.FormatJSONText(r.Node, "  ")
	if err != nil {
		return "", false
	}
	return strings.TrimRight(out, "\n"), true
}
