package jsontree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Fixed display tokens.
const (
	EmptyArrayText  = "[ ]"
	EmptyObjectText = "{ }"
	NullText        = "null"
	TrueGlyph       = "◉"
	FalseGlyph      = "○"
	Separator       = ":"
)

// Affordance is the toggle indicator drawn before a row's key.
type Affordance int

const (
	// AffordanceNone is a blank placeholder with the width of the indicator.
	AffordanceNone Affordance = iota
	AffordanceCollapsed
	AffordanceExpanded
)

// Row is one displayed child of a container.
type Row struct {
	// Depth is 0 for children of the root, +1 per expanded ancestor.
	Depth int
	// Path addresses this child from the root; the last element is Key.
	Path       []Key
	Key        Key
	Affordance Affordance
	Kind       Kind
	// Summary is set for non-empty containers ("Array[3]", "Object{}").
	Summary string
	// Value is the inline text for leaves and empty containers.
	Value string
	// Glyph is the boolean indicator, empty for other kinds.
	Glyph string
	Node  Node
}

// Expandable reports whether the row carries a toggle affordance.
func (r Row) Expandable() bool { return r.Affordance != AffordanceNone }

// Expanded reports whether the row is currently expanded.
func (r Row) Expanded() bool { return r.Affordance == AffordanceExpanded }

// Text renders the row without styling: indentation, affordance, label,
// separator and value or summary.
func (r Row) Text() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.Depth))
	b.WriteString(AffordanceText(r.Affordance))
	b.WriteString(" ")
	b.WriteString(r.Key.Label())
	b.WriteString(Separator)
	b.WriteString(" ")
	if r.Summary != "" {
		b.WriteString(r.Summary)
	} else {
		if r.Glyph != "" {
			b.WriteString(r.Glyph)
			b.WriteString(" ")
		}
		b.WriteString(r.Value)
	}
	return b.String()
}

// AffordanceText returns the single-cell indicator for a.
func AffordanceText(a Affordance) string {
	switch a {
	case AffordanceCollapsed:
		return "▸"
	case AffordanceExpanded:
		return "▾"
	default:
		return " "
	}
}

// Render produces the rows for the children of n. Leaves and empty
// containers have no rows; their value is shown inline by the caller.
// A child's own children are only visited when exp marks that child as
// expanded.
func Render(n Node, exp *Expansion) []Row {
	return appendRows(nil, n, exp, nil, 0)
}

func appendRows(rows []Row, n Node, exp *Expansion, parent []Key, depth int) []Row {
	if !n.Expandable() {
		return rows
	}
	for _, k := range n.ChildKeys() {
		child, _ := n.Child(k)
		path := make([]Key, len(parent)+1)
		copy(path, parent)
		path[len(parent)] = k

		row := Row{Depth: depth, Path: path, Key: k, Kind: child.Kind(), Node: child}
		if !child.Expandable() {
			row.Value, row.Glyph = LeafText(child)
			rows = append(rows, row)
			continue
		}
		row.Summary = SummaryText(child)
		if !exp.Expanded(k) {
			row.Affordance = AffordanceCollapsed
			rows = append(rows, row)
			continue
		}
		row.Affordance = AffordanceExpanded
		rows = append(rows, row)
		rows = appendRows(rows, child, exp.Child(k), path, depth+1)
	}
	return rows
}

// LeafText renders a leaf (or an empty container) inline. The glyph is only
// set for booleans.
func LeafText(n Node) (text, glyph string) {
	switch n.Kind() {
	case KindString:
		return `"` + EscapeControl(n.StringValue()) + `"`, ""
	case KindNumber:
		return FormatNumber(n.NumberValue()), ""
	case KindBool:
		if n.BoolValue() {
			return "true", TrueGlyph
		}
		return "false", FalseGlyph
	case KindNull:
		return NullText, ""
	case KindArray:
		if n.Len() == 0 {
			return EmptyArrayText, ""
		}
		return SummaryText(n), ""
	case KindObject:
		if n.Len() == 0 {
			return EmptyObjectText, ""
		}
		return SummaryText(n), ""
	default:
		return EscapeControl(n.StringValue()), ""
	}
}

// EscapeControl replaces control characters and line separators with
// backslash escapes, so the text stays on one terminal row and cannot carry
// terminal escape sequences. Other characters pass through.
func EscapeControl(s string) string {
	if !strings.ContainsFunc(s, needsEscape) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case needsEscape(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeControlLines applies EscapeControl to each line of a multi-line
// text. Line breaks are kept, CRLF endings become LF and tabs expand to
// four spaces.
func EscapeControlLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = EscapeControl(strings.ReplaceAll(line, "\t", "    "))
	}
	return strings.Join(lines, "\n")
}

func needsEscape(r rune) bool {
	return unicode.IsControl(r) || r == '\u2028' || r == '\u2029'
}

// SummaryText is the one-line summary of a non-empty container.
func SummaryText(n Node) string {
	if n.Kind() == KindArray {
		return fmt.Sprintf("Array[%d]", n.Len())
	}
	return "Object{}"
}

// Header is the descriptive line shown above the root value.
func Header(n Node) string {
	switch n.Kind() {
	case KindArray:
		return fmt.Sprintf("array of %d elements", n.Len())
	case KindObject:
		return "object"
	default:
		return "value of kind " + n.Kind().String()
	}
}

// FormatNumber renders a number with the shortest round-trip digits, in plain
// decimal form inside [1e-6, 1e21) and exponent form outside it. Numbers that
// overflowed during decoding keep their literal text.
func FormatNumber(num Number) string {
	if num.Overflow {
		return num.Literal
	}
	v := num.Value
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	s = strings.Replace(s, "e-0", "e-", 1)
	s = strings.Replace(s, "e+0", "e+", 1)
	return s
}
