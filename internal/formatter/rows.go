package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

const defaultIndent = 2

// RowOptions control FormatView and RenderRow.
type RowOptions struct {
	// Indent is the number of columns per depth level; 0 means 2.
	Indent int
	// Width truncates each line; 0 disables it.
	Width int
}

// FormatView renders a document view: the header line followed by the
// inline root value or one line per row.
func FormatView(v jsontree.View, st Styles, opts RowOptions) string {
	if v.Failed {
		return FormatError(v, st)
	}
	var b strings.Builder
	b.WriteString(st.Header.Render(v.Header))
	b.WriteString("\n")
	if len(v.Rows) == 0 {
		b.WriteString(renderInline(v.RootKind, v.RootGlyph, v.RootValue, st, opts.Width))
		b.WriteString("\n")
		return b.String()
	}
	for _, r := range v.Rows {
		b.WriteString(RenderRow(r, st, opts))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderRow renders one row: indentation, affordance, label, separator and
// the summary or inline value.
func RenderRow(r jsontree.Row, st Styles, opts RowOptions) string {
	indent := opts.Indent
	if indent <= 0 {
		indent = defaultIndent
	}
	prefix := strings.Repeat(" ", r.Depth*indent)
	label := r.Key.Label()
	plainHead := prefix + jsontree.AffordanceText(r.Affordance) + " " + label + jsontree.Separator + " "

	keyStyle := st.Key
	if r.Key.IsIndex() {
		keyStyle = st.Summary
	}
	head := prefix + st.Affordance.Render(jsontree.AffordanceText(r.Affordance)) + " " +
		keyStyle.Render(label) + jsontree.Separator + " "

	remaining := 0
	if opts.Width > 0 {
		remaining = opts.Width - runewidth.StringWidth(plainHead)
		if remaining < 1 {
			return truncate(plainHead, opts.Width)
		}
	}
	if r.Summary != "" {
		return head + st.Summary.Render(truncate(r.Summary, remaining))
	}
	return head + renderInline(r.Kind, r.Glyph, r.Value, st, remaining)
}

func renderInline(kind jsontree.Kind, glyph, value string, st Styles, width int) string {
	text := value
	if glyph != "" {
		text = glyph + " " + value
	}
	return st.Value(kind).Render(truncate(text, width))
}
