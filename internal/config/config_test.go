package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "jsonpeek", cfg.App.About.Name)
	assert.Equal(t, ThemeDark, cfg.UI.Theme.Default)
	assert.Equal(t, []string{ThemeDark, ThemeLight}, cfg.ThemeNames())
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.EqualValues(t, 32<<20, cfg.Fetch.MaxBytes)
	assert.Equal(t, 512, cfg.UI.Tree.MaxDepth)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.True(t, BoolValue(cfg.History.Enabled, false))
	assert.True(t, BoolValue(cfg.UI.Editor.LineNumbers, false))
	assert.Equal(t, ColorValue("81"), cfg.UI.Themes[ThemeDark].KeyColor)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `app:
  about:
    name: custom-peek
fetch:
  timeout: 5s
  headers:
    Authorization: Bearer x
history:
  enabled: false
ui:
  theme:
    default: light
  themes:
    light:
      key_color: "#00ff00"
    solar:
      key_color: 136
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-peek", cfg.App.About.Name)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "Bearer x", cfg.Fetch.Headers["Authorization"])
	assert.Equal(t, "application/json", cfg.Fetch.Headers["Accept"], "default headers are kept")
	assert.False(t, BoolValue(cfg.History.Enabled, true))
	assert.Equal(t, ThemeLight, cfg.UI.Theme.Default)
	assert.Equal(t, ColorValue("#00ff00"), cfg.UI.Themes[ThemeLight].KeyColor)
	assert.Equal(t, ColorValue("28"), cfg.UI.Themes[ThemeLight].StringColor, "unset colors keep the default")
	assert.Equal(t, ColorValue("136"), cfg.UI.Themes["solar"].KeyColor)
}

func TestLoadDoesNotMutateDefaults(t *testing.T) {
	path := writeConfig(t, "fetch:\n  headers:\n    X-Test: one\n")
	_, err := Load(path)
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	assert.NotContains(t, def.Fetch.Headers, "X-Test")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "ui:\n  colour: red\n"},
		{"unknown theme", "ui:\n  theme:\n    default: neon\n"},
		{"negative limit", "history:\n  limit: -1\n"},
		{"bad duration", "fetch:\n  timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Empty(t, ResolvePath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "jsonpeek"), 0o755))
	want := filepath.Join(dir, "jsonpeek", "config.yaml")
	require.NoError(t, os.WriteFile(want, []byte("{}\n"), 0o600))
	assert.Equal(t, want, ResolvePath(""))
}

func TestHistoryPath(t *testing.T) {
	cfg := File{History: HistoryConfig{Path: "/tmp/h.db"}}
	p, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.db", p)

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = File{}.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jsonpeek", "history.db"), p)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "key_color: 81")
	assert.Contains(t, string(data), "timeout: 30s")

	var back File
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}
