package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonpeek/pkg/settings"
)

// Display modes shipped in the default config.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ResolvePath returns explicit if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/jsonpeek/config.yaml) or ~/.config/jsonpeek/config.yaml
// when that file exists. An empty result means defaults only.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Load returns the embedded defaults with the file at path merged on top.
// An empty path loads the defaults only.
func Load(path string) (File, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if cfg.UI.Theme.Default == "" || len(cfg.UI.Themes) == 0 {
		return cfg, fmt.Errorf("default config is missing required theme defaults")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	user, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("decode config file %s: %w", path, err)
	}
	cfg = Merge(cfg, user)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document, rejecting unknown keys.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	return f, nil
}

// Merge lays override on top of base. Unset override fields keep the base
// value; themes merge color by color.
func Merge(base, override File) File {
	cfg := clone(base)

	setString := func(src string, dst *string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}

	about := override.App.About
	setString(about.Name, &cfg.App.About.Name)
	setString(about.Description, &cfg.App.About.Description)
	setString(about.License, &cfg.App.About.License)
	setString(about.RepositoryURL, &cfg.App.About.RepositoryURL)
	if override.App.Debug.Enabled != nil {
		cfg.App.Debug.Enabled = override.App.Debug.Enabled
	}
	setString(override.App.Debug.LogFile, &cfg.App.Debug.LogFile)

	if override.Fetch.Timeout != 0 {
		cfg.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.MaxBytes != 0 {
		cfg.Fetch.MaxBytes = override.Fetch.MaxBytes
	}
	setString(override.Fetch.UserAgent, &cfg.Fetch.UserAgent)
	if len(override.Fetch.Headers) > 0 {
		if cfg.Fetch.Headers == nil {
			cfg.Fetch.Headers = map[string]string{}
		}
		for k, v := range override.Fetch.Headers {
			cfg.Fetch.Headers[k] = v
		}
	}

	if override.History.Enabled != nil {
		cfg.History.Enabled = override.History.Enabled
	}
	setString(override.History.Path, &cfg.History.Path)
	if override.History.Limit != 0 {
		cfg.History.Limit = override.History.Limit
	}

	setString(override.UI.Theme.Default, &cfg.UI.Theme.Default)
	if override.UI.Tree.MaxDepth != 0 {
		cfg.UI.Tree.MaxDepth = override.UI.Tree.MaxDepth
	}
	if override.UI.Tree.Indent != 0 {
		cfg.UI.Tree.Indent = override.UI.Tree.Indent
	}
	if override.UI.Editor.LineNumbers != nil {
		cfg.UI.Editor.LineNumbers = override.UI.Editor.LineNumbers
	}
	if len(override.UI.Themes) > 0 {
		if cfg.UI.Themes == nil {
			cfg.UI.Themes = map[string]ThemeConfig{}
		}
		for name, th := range override.UI.Themes {
			cfg.UI.Themes[name] = MergeTheme(cfg.UI.Themes[name], th)
		}
	}
	return cfg
}

// MergeTheme lays the non-empty colors of override on top of base.
func MergeTheme(base, override ThemeConfig) ThemeConfig {
	out := base
	apply := func(src ColorValue, dst *ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	apply(override.KeyColor, &out.KeyColor)
	apply(override.StringColor, &out.StringColor)
	apply(override.NumberColor, &out.NumberColor)
	apply(override.BoolColor, &out.BoolColor)
	apply(override.NullColor, &out.NullColor)
	apply(override.SummaryColor, &out.SummaryColor)
	apply(override.AffordanceColor, &out.AffordanceColor)
	apply(override.HeaderFG, &out.HeaderFG)
	apply(override.HeaderBG, &out.HeaderBG)
	apply(override.SelectedFG, &out.SelectedFG)
	apply(override.SelectedBG, &out.SelectedBG)
	apply(override.SeparatorColor, &out.SeparatorColor)
	apply(override.InputFG, &out.InputFG)
	apply(override.InputBG, &out.InputBG)
	apply(override.TabActive, &out.TabActive)
	apply(override.TabInactive, &out.TabInactive)
	apply(override.StatusColor, &out.StatusColor)
	apply(override.StatusError, &out.StatusError)
	apply(override.StatusSuccess, &out.StatusSuccess)
	apply(override.ErrorColor, &out.ErrorColor)
	apply(override.HelpKey, &out.HelpKey)
	apply(override.HelpValue, &out.HelpValue)
	return out
}

// Validate checks cross-field constraints of a merged config.
func (f File) Validate() error {
	if _, ok := f.UI.Themes[f.UI.Theme.Default]; !ok {
		return fmt.Errorf("unknown default theme %q (available: %s)", f.UI.Theme.Default, strings.Join(f.ThemeNames(), ", "))
	}
	if f.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	if f.Fetch.MaxBytes < 0 {
		return fmt.Errorf("fetch.max_bytes must not be negative")
	}
	if f.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	if f.UI.Tree.MaxDepth < 0 {
		return fmt.Errorf("ui.tree.max_depth must not be negative")
	}
	return nil
}

// ThemeNames returns the configured palette names, sorted.
func (f File) ThemeNames() []string {
	names := make([]string, 0, len(f.UI.Themes))
	for name := range f.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HistoryPath returns the configured database path, or history.db under the
// user data directory ($XDG_DATA_HOME or ~/.local/share).
func (f File) HistoryPath() (string, error) {
	if f.History.Path != "" {
		return f.History.Path, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, settings.CliBinaryName, "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve history path: %w", err)
	}
	return filepath.Join(home, ".local", "share", settings.CliBinaryName, "history.db"), nil
}

// Marshal renders the config as YAML.
func (f File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
