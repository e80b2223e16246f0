package ui

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/oakwood-commons/jsonpeek/internal/config"
)

func TestThemeByName(t *testing.T) {
	cfg := testConfig(t)

	light := ThemeByName(cfg, config.ThemeLight)
	assert.Equal(t, config.ThemeLight, light.Name)
	assert.Equal(t, lipgloss.Color("28"), light.StringColor)

	dark := ThemeByName(cfg, config.ThemeDark)
	assert.Equal(t, config.ThemeDark, dark.Name)
	assert.Equal(t, lipgloss.Color("81"), dark.KeyColor)

	unknown := ThemeByName(cfg, "solarized")
	assert.Equal(t, cfg.UI.Theme.Default, unknown.Name)
}

func TestThemeFromConfigKeepsFallbacks(t *testing.T) {
	th := ThemeFromConfig("custom", config.ThemeConfig{KeyColor: "#ff0000"})
	assert.Equal(t, "custom", th.Name)
	assert.Equal(t, lipgloss.Color("#ff0000"), th.KeyColor)
	assert.Equal(t, fallbackTheme().StatusError, th.StatusError)

	p := th.Palette()
	assert.Equal(t, th.KeyColor, p.Key)
	assert.Equal(t, th.ErrorColor, p.Error)
}

func TestNextThemeName(t *testing.T) {
	assert.Equal(t, config.ThemeLight, NextThemeName(config.ThemeDark))
	assert.Equal(t, config.ThemeDark, NextThemeName(config.ThemeLight))
	assert.Equal(t, config.ThemeLight, NextThemeName(""))
}

func TestStatusView(t *testing.T) {
	s := NewStatusModel()
	s.Width = 40
	s.Error(MsgFetchFailed, "GET x: 500")
	out := s.View("")
	assert.Contains(t, out, "Fetch failed. GET x: 500")

	s.Success(MsgFetched)
	out = s.View("2/9")
	assert.Contains(t, out, MsgFetched)
	assert.Contains(t, out, "2/9")
	assert.False(t, s.IsBusy())

	cmd := s.Busy(MsgFetching)
	assert.NotNil(t, cmd)
	assert.True(t, s.IsBusy())
	assert.Contains(t, s.View(""), MsgFetching)
}
