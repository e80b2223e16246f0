// Package config holds the YAML configuration of jsonpeek: the embedded
// defaults, the user file merged on top of them and the types both decode
// into.
package config

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the full configuration document.
type File struct {
	App     AppConfig     `yaml:"app" json:"app"`
	Fetch   FetchConfig   `yaml:"fetch" json:"fetch"`
	History HistoryConfig `yaml:"history" json:"history"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
}

// AppConfig contains application metadata and diagnostics settings.
type AppConfig struct {
	About AboutConfig `yaml:"about,omitempty" json:"about,omitempty"`
	Debug DebugConfig `yaml:"debug,omitempty" json:"debug,omitempty"`
}

// AboutConfig contains application metadata. Version, GoVersion, BuildOS,
// BuildArch and GitCommit are filled from build info at runtime.
type AboutConfig struct {
	Name          string `yaml:"name,omitempty" json:"name,omitempty"`
	Description   string `yaml:"description,omitempty" json:"description,omitempty"`
	Version       string `yaml:"version,omitempty" json:"version,omitempty"`
	GoVersion     string `yaml:"go_version,omitempty" json:"go_version,omitempty"`
	BuildOS       string `yaml:"build_os,omitempty" json:"build_os,omitempty"`
	BuildArch     string `yaml:"build_arch,omitempty" json:"build_arch,omitempty"`
	GitCommit     string `yaml:"git_commit,omitempty" json:"git_commit,omitempty"`
	License       string `yaml:"license,omitempty" json:"license,omitempty"`
	RepositoryURL string `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
}

// DebugConfig holds logging settings.
type DebugConfig struct {
	// Enabled lowers the log level to debug, like --debug.
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`
}

// FetchConfig controls how documents are retrieved.
type FetchConfig struct {
	Timeout   time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	MaxBytes  int64             `yaml:"max_bytes,omitempty" json:"max_bytes,omitempty"`
	UserAgent string            `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}

// HistoryConfig controls the address history store.
type HistoryConfig struct {
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	// Path of the SQLite database. Empty means the user data directory.
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
	Limit int    `yaml:"limit,omitempty" json:"limit,omitempty"`
}

// UIConfig groups terminal UI settings.
type UIConfig struct {
	Theme  ThemeSelectionConfig   `yaml:"theme,omitempty" json:"theme,omitempty"`
	Themes map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
	Tree   TreeConfig             `yaml:"tree,omitempty" json:"tree,omitempty"`
	Editor EditorConfig           `yaml:"editor,omitempty" json:"editor,omitempty"`
}

// ThemeSelectionConfig selects the display mode used when nothing was
// persisted yet.
type ThemeSelectionConfig struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// TreeConfig controls decoding and drawing of the tree.
type TreeConfig struct {
	// MaxDepth bounds container nesting accepted by the decoder.
	MaxDepth int `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	// Indent is the number of columns per nesting level.
	Indent int `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// EditorConfig controls the raw-text editor tab.
type EditorConfig struct {
	LineNumbers *bool `yaml:"line_numbers,omitempty" json:"line_numbers,omitempty"`
}

// ColorValue stores a color token (ANSI number, name or #hex) and marshals
// numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: s,
		}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is one display mode palette.
type ThemeConfig struct {
	KeyColor        ColorValue `yaml:"key_color,omitempty" json:"key_color,omitempty"`
	StringColor     ColorValue `yaml:"string_color,omitempty" json:"string_color,omitempty"`
	NumberColor     ColorValue `yaml:"number_color,omitempty" json:"number_color,omitempty"`
	BoolColor       ColorValue `yaml:"bool_color,omitempty" json:"bool_color,omitempty"`
	NullColor       ColorValue `yaml:"null_color,omitempty" json:"null_color,omitempty"`
	SummaryColor    ColorValue `yaml:"summary_color,omitempty" json:"summary_color,omitempty"`
	AffordanceColor ColorValue `yaml:"affordance_color,omitempty" json:"affordance_color,omitempty"`
	HeaderFG        ColorValue `yaml:"header_fg,omitempty" json:"header_fg,omitempty"`
	HeaderBG        ColorValue `yaml:"header_bg,omitempty" json:"header_bg,omitempty"`
	SelectedFG      ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG      ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	SeparatorColor  ColorValue `yaml:"separator_color,omitempty" json:"separator_color,omitempty"`
	InputFG         ColorValue `yaml:"input_fg,omitempty" json:"input_fg,omitempty"`
	InputBG         ColorValue `yaml:"input_bg,omitempty" json:"input_bg,omitempty"`
	TabActive       ColorValue `yaml:"tab_active,omitempty" json:"tab_active,omitempty"`
	TabInactive     ColorValue `yaml:"tab_inactive,omitempty" json:"tab_inactive,omitempty"`
	StatusColor     ColorValue `yaml:"status_color,omitempty" json:"status_color,omitempty"`
	StatusError     ColorValue `yaml:"status_error,omitempty" json:"status_error,omitempty"`
	StatusSuccess   ColorValue `yaml:"status_success,omitempty" json:"status_success,omitempty"`
	ErrorColor      ColorValue `yaml:"error_color,omitempty" json:"error_color,omitempty"`
	HelpKey         ColorValue `yaml:"help_key,omitempty" json:"help_key,omitempty"`
	HelpValue       ColorValue `yaml:"help_value,omitempty" json:"help_value,omitempty"`
}

// BoolValue dereferences b, returning def when it is unset.
func BoolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
