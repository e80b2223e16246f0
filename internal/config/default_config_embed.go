package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     File
	embeddedConfigErr  error
)

// DefaultYAML returns a copy of the embedded default config bytes.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses and returns the embedded default configuration. It is the
// single source of truth for default settings and palettes.
func Default() (File, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
	})
	return clone(embeddedConfig), embeddedConfigErr
}

// clone copies the maps of f so callers cannot mutate the cached default.
func clone(f File) File {
	out := f
	if f.Fetch.Headers != nil {
		out.Fetch.Headers = make(map[string]string, len(f.Fetch.Headers))
		for k, v := range f.Fetch.Headers {
			out.Fetch.Headers[k] = v
		}
	}
	if f.UI.Themes != nil {
		out.UI.Themes = make(map[string]ThemeConfig, len(f.UI.Themes))
		for k, v := range f.UI.Themes {
			out.UI.Themes[k] = v
		}
	}
	return out
}
