package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderHelp draws the key reference overlay.
func renderHelp(st styles, width int) string {
	keyWidth := 0
	for _, sec := range helpSections {
		for _, k := range sec.Keys {
			if w := runewidth.StringWidth(k.Keys); w > keyWidth {
				keyWidth = w
			}
		}
	}
	var b strings.Builder
	for i, sec := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(st.rows.Header.Render(sec.Title))
		b.WriteString("\n")
		for _, k := range sec.Keys {
			pad := strings.Repeat(" ", keyWidth-runewidth.StringWidth(k.Keys))
			line := "  " + st.helpKey.Render(k.Keys) + pad + "  " + st.helpValue.Render(k.Desc)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(st.dim.Render(runewidth.Truncate("Press ? or esc to close", width, "…")))
	return b.String()
}
