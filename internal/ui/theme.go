package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/formatter"
)

// Theme defines the colors used across the UI.
type Theme struct {
	Name string

	KeyColor        color.Color // member names
	StringColor     color.Color
	NumberColor     color.Color
	BoolColor       color.Color
	NullColor       color.Color // null and empty containers
	SummaryColor    color.Color // Array[n] / Object{} and element indices
	AffordanceColor color.Color // ▸ ▾
	HeaderFG        color.Color // title bar and header line
	HeaderBG        color.Color
	SelectedFG      color.Color // cursor row
	SelectedBG      color.Color
	SeparatorColor  color.Color
	InputFG         color.Color // URL input
	InputBG         color.Color
	TabActive       color.Color
	TabInactive     color.Color
	StatusColor     color.Color
	StatusError     color.Color
	StatusSuccess   color.Color
	ErrorColor      color.Color // error region caption
	HelpKey         color.Color
	HelpValue       color.Color
}

// fallbackTheme is used for any color a configured theme leaves unset.
func fallbackTheme() Theme {
	return Theme{
		Name:            config.ThemeDark,
		KeyColor:        lipgloss.Color("81"),
		StringColor:     lipgloss.Color("114"),
		NumberColor:     lipgloss.Color("215"),
		BoolColor:       lipgloss.Color("176"),
		NullColor:       lipgloss.Color("244"),
		SummaryColor:    lipgloss.Color("246"),
		AffordanceColor: lipgloss.Color("81"),
		HeaderFG:        lipgloss.Color("81"),
		HeaderBG:        lipgloss.Color("236"),
		SelectedFG:      lipgloss.Color("250"),
		SelectedBG:      lipgloss.Color("24"),
		SeparatorColor:  lipgloss.Color("238"),
		InputFG:         lipgloss.Color("246"),
		InputBG:         lipgloss.Color("236"),
		TabActive:       lipgloss.Color("81"),
		TabInactive:     lipgloss.Color("242"),
		StatusColor:     lipgloss.Color("81"),
		StatusError:     lipgloss.Color("203"),
		StatusSuccess:   lipgloss.Color("114"),
		ErrorColor:      lipgloss.Color("203"),
		HelpKey:         lipgloss.Color("81"),
		HelpValue:       lipgloss.Color("245"),
	}
}

// ThemeFromConfig builds a Theme from a configured palette.
func ThemeFromConfig(name string, cfg config.ThemeConfig) Theme {
	th := fallbackTheme()
	th.Name = name
	set := func(val config.ColorValue, dst *color.Color) {
		if v := strings.TrimSpace(string(val)); v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(cfg.KeyColor, &th.KeyColor)
	set(cfg.StringColor, &th.StringColor)
	set(cfg.NumberColor, &th.NumberColor)
	set(cfg.BoolColor, &th.BoolColor)
	set(cfg.NullColor, &th.NullColor)
	set(cfg.SummaryColor, &th.SummaryColor)
	set(cfg.AffordanceColor, &th.AffordanceColor)
	set(cfg.HeaderFG, &th.HeaderFG)
	set(cfg.HeaderBG, &th.HeaderBG)
	set(cfg.SelectedFG, &th.SelectedFG)
	set(cfg.SelectedBG, &th.SelectedBG)
	set(cfg.SeparatorColor, &th.SeparatorColor)
	set(cfg.InputFG, &th.InputFG)
	set(cfg.InputBG, &th.InputBG)
	set(cfg.TabActive, &th.TabActive)
	set(cfg.TabInactive, &th.TabInactive)
	set(cfg.StatusColor, &th.StatusColor)
	set(cfg.StatusError, &th.StatusError)
	set(cfg.StatusSuccess, &th.StatusSuccess)
	set(cfg.ErrorColor, &th.ErrorColor)
	set(cfg.HelpKey, &th.HelpKey)
	set(cfg.HelpValue, &th.HelpValue)
	return th
}

// ThemeByName looks a display mode up in cfg, falling back to the
// configured default and then to the built-in palette.
func ThemeByName(cfg config.File, name string) Theme {
	if tc, ok := cfg.UI.Themes[name]; ok {
		return ThemeFromConfig(name, tc)
	}
	def := cfg.UI.Theme.Default
	if tc, ok := cfg.UI.Themes[def]; ok {
		return ThemeFromConfig(def, tc)
	}
	return fallbackTheme()
}

// NextThemeName returns the mode that ctrl+t switches to.
func NextThemeName(current string) string {
	if current == config.ThemeLight {
		return config.ThemeDark
	}
	return config.ThemeLight
}

// Palette maps the theme onto the row renderer's colors.
func (t Theme) Palette() formatter.Palette {
	return formatter.Palette{
		Key:        t.KeyColor,
		String:     t.StringColor,
		Number:     t.NumberColor,
		Bool:       t.BoolColor,
		Null:       t.NullColor,
		Summary:    t.SummaryColor,
		Affordance: t.AffordanceColor,
		Header:     t.HeaderFG,
		Error:      t.ErrorColor,
	}
}

// styles is the lipgloss style set derived from a theme. The zero value
// renders plain text.
type styles struct {
	rows      formatter.Styles
	title     lipgloss.Style
	selected  lipgloss.Style
	separator lipgloss.Style
	input     lipgloss.Style
	tabOn     lipgloss.Style
	tabOff    lipgloss.Style
	status    lipgloss.Style
	statusErr lipgloss.Style
	statusOK  lipgloss.Style
	helpKey   lipgloss.Style
	helpValue lipgloss.Style
	dim       lipgloss.Style
}

func newStyles(t Theme, noColor bool) styles {
	if noColor {
		return styles{
			selected: lipgloss.NewStyle().Reverse(true),
			tabOn:    lipgloss.NewStyle().Underline(true),
		}
	}
	return styles{
		rows:      formatter.NewStyles(t.Palette(), false),
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.HeaderFG).Background(t.HeaderBG),
		selected:  lipgloss.NewStyle().Foreground(t.SelectedFG).Background(t.SelectedBG),
		separator: lipgloss.NewStyle().Foreground(t.SeparatorColor),
		input:     lipgloss.NewStyle().Foreground(t.InputFG).Background(t.InputBG),
		tabOn:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(t.TabActive),
		tabOff:    lipgloss.NewStyle().Foreground(t.TabInactive),
		status:    lipgloss.NewStyle().Foreground(t.StatusColor),
		statusErr: lipgloss.NewStyle().Foreground(t.StatusError),
		statusOK:  lipgloss.NewStyle().Foreground(t.StatusSuccess),
		helpKey:   lipgloss.NewStyle().Bold(true).Foreground(t.HelpKey),
		helpValue: lipgloss.NewStyle().Foreground(t.HelpValue),
		dim:       lipgloss.NewStyle().Foreground(t.SummaryColor),
	}
}
