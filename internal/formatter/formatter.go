// Package formatter renders a jsontree document to text for non-interactive
// output: styled rows, an ASCII tree, a Mermaid flowchart, or a re-encoding
// as JSON, YAML or TOML.
package formatter

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// Output formats accepted by Format.
const (
	FormatRows    = "rows"
	FormatTree    = "tree"
	FormatMermaid = "mermaid"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatTOML    = "toml"
	FormatRaw     = "raw"
)

// ValidFormats lists every output format, in help order.
var ValidFormats = []string{FormatRows, FormatTree, FormatMermaid, FormatJSON, FormatYAML, FormatTOML, FormatRaw}

// ValidateFormat returns an error if format is unknown.
func ValidateFormat(format string) error {
	for _, f := range ValidFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid output %q: valid values are %s", format, strings.Join(ValidFormats, ", "))
}

// Palette holds the colors used for rows. Nil fields fall back to defaults.
type Palette struct {
	Key        color.Color
	String     color.Color
	Number     color.Color
	Bool       color.Color
	Null       color.Color
	Summary    color.Color
	Affordance color.Color
	Header     color.Color
	Error      color.Color
}

// DefaultPalette is used when the caller passes a zero Palette.
func DefaultPalette() Palette {
	return Palette{
		Key:        lipgloss.Color("81"),
		String:     lipgloss.Color("114"),
		Number:     lipgloss.Color("215"),
		Bool:       lipgloss.Color("176"),
		Null:       lipgloss.Color("244"),
		Summary:    lipgloss.Color("246"),
		Affordance: lipgloss.Color("81"),
		Header:     lipgloss.Color("81"),
		Error:      lipgloss.Color("203"),
	}
}

func (p Palette) withDefaults() Palette {
	def := DefaultPalette()
	pick := func(c, d color.Color) color.Color {
		if c == nil {
			return d
		}
		return c
	}
	return Palette{
		Key:        pick(p.Key, def.Key),
		String:     pick(p.String, def.String),
		Number:     pick(p.Number, def.Number),
		Bool:       pick(p.Bool, def.Bool),
		Null:       pick(p.Null, def.Null),
		Summary:    pick(p.Summary, def.Summary),
		Affordance: pick(p.Affordance, def.Affordance),
		Header:     pick(p.Header, def.Header),
		Error:      pick(p.Error, def.Error),
	}
}

// Styles are the lipgloss styles derived from a Palette. The zero Styles
// render plain text.
type Styles struct {
	Key        lipgloss.Style
	String     lipgloss.Style
	Number     lipgloss.Style
	Bool       lipgloss.Style
	Null       lipgloss.Style
	Summary    lipgloss.Style
	Affordance lipgloss.Style
	Header     lipgloss.Style
	Error      lipgloss.Style
}

// NewStyles builds styles from p. With noColor every style is plain.
func NewStyles(p Palette, noColor bool) Styles {
	if noColor {
		return Styles{}
	}
	p = p.withDefaults()
	return Styles{
		Key:        lipgloss.NewStyle().Bold(true).Foreground(p.Key),
		String:     lipgloss.NewStyle().Foreground(p.String),
		Number:     lipgloss.NewStyle().Foreground(p.Number),
		Bool:       lipgloss.NewStyle().Foreground(p.Bool),
		Null:       lipgloss.NewStyle().Foreground(p.Null).Italic(true),
		Summary:    lipgloss.NewStyle().Foreground(p.Summary),
		Affordance: lipgloss.NewStyle().Foreground(p.Affordance),
		Header:     lipgloss.NewStyle().Bold(true).Foreground(p.Header),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(p.Error),
	}
}

// Value returns the style for an inline value of kind k. Empty containers
// and opaque leaves share the null style.
func (s Styles) Value(k jsontree.Kind) lipgloss.Style {
	switch k {
	case jsontree.KindString:
		return s.String
	case jsontree.KindNumber:
		return s.Number
	case jsontree.KindBool:
		return s.Bool
	case jsontree.KindArray, jsontree.KindObject:
		return s.Summary
	default:
		return s.Null
	}
}

// Options control Format.
type Options struct {
	Palette Palette
	NoColor bool
	// Indent is the number of columns per nesting level in rows output.
	Indent int
	// Width truncates rows output to this many columns; 0 disables it.
	Width   int
	Tree    TreeOptions
	Mermaid MermaidOptions
	YAML    YAMLFormatOptions
}

// Format renders doc in format. A document that failed to decode renders
// its error region for rows, tree and raw output; the re-encoding formats
// return the decode error instead.
func Format(doc *jsontree.Document, format string, opts Options) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	if format == FormatRaw {
		return ensureNewline(doc.Raw()), nil
	}
	if !doc.OK() {
		switch format {
		case FormatRows, FormatTree:
			return FormatError(doc.View(), NewStyles(opts.Palette, opts.NoColor)), nil
		default:
			return "", doc.Err()
		}
	}
	switch format {
	case FormatTree:
		return FormatAsTree(doc.Root(), opts.Tree), nil
	case FormatMermaid:
		return FormatAsMermaid(doc.Root(), opts.Mermaid), nil
	case FormatJSON:
		return FormatJSONText(doc.Root(), "  ")
	case FormatYAML:
		return FormatYAMLText(doc.Root(), opts.YAML)
	case FormatTOML:
		return FormatTOMLText(doc.Root())
	default:
		return FormatView(doc.View(), NewStyles(opts.Palette, opts.NoColor), RowOptions{Indent: opts.Indent, Width: opts.Width}), nil
	}
}

// FormatError renders the error region: the fixed caption followed by the
// input text, with control characters escaped line by line.
func FormatError(v jsontree.View, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Error.Render(v.Caption))
	b.WriteString("\n")
	b.WriteString(ensureNewline(jsontree.EscapeControlLines(v.Raw)))
	return b.String()
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// truncate cuts s to maxWidth display columns, ending with an ellipsis.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}
