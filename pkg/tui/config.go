package tui

import (
	"context"
	"fmt"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/fetch"
	"github.com/oakwood-commons/jsonpeek/pkg/loader"
)

// Config holds host-provided settings for running the viewer.
type Config struct {
	Context context.Context
	// ConfigFile is merged over the built-in defaults. Empty resolves the
	// same XDG location the CLI reads.
	ConfigFile string
	// Address is shown in the URL input. When Run gets a nil root it is
	// fetched on start.
	Address string
	// InputFormat names the decoder for string and []byte roots and for
	// fetched text: json, yaml, toml, ndjson, jwt or auto.
	InputFormat string
	ThemeName   string
	NoColor     bool
	Width       int
	Height      int
	// StartKeys are replayed before RenderSnapshot draws its frame.
	StartKeys []string
	// Headers are sent with every HTTP fetch, on top of fetch.headers.
	Headers map[string]string
	// History turns on the SQLite address history when the configuration
	// also enables it.
	History bool
}

// DefaultConfig returns a config that sniffs the input format and uses the
// built-in defaults for everything else.
func DefaultConfig() Config {
	return Config{InputFormat: string(loader.FormatAuto)}
}

// resolve loads the configuration file and the decoder options.
func (c Config) resolve() (config.File, loader.Options, error) {
	file, err := config.Load(config.ResolvePath(c.ConfigFile))
	if err != nil {
		return file, loader.Options{}, err
	}
	format, err := loader.ParseFormat(c.InputFormat)
	if err != nil {
		return file, loader.Options{}, err
	}
	if c.ThemeName != "" {
		if _, ok := file.UI.Themes[c.ThemeName]; !ok {
			return file, loader.Options{}, fmt.Errorf("unknown theme %q", c.ThemeName)
		}
	}
	return file, loader.Options{Format: format, MaxDepth: file.UI.Tree.MaxDepth}, nil
}

func (c Config) fetcher(file config.File) *fetch.Fetcher {
	headers := make(map[string]string, len(file.Fetch.Headers)+len(c.Headers))
	for k, v := range file.Fetch.Headers {
		headers[k] = v
	}
	for k, v := range c.Headers {
		headers[k] = v
	}
	return fetch.New(fetch.Options{
		Timeout:   file.Fetch.Timeout,
		MaxBytes:  file.Fetch.MaxBytes,
		UserAgent: file.Fetch.UserAgent,
		Headers:   headers,
	})
}
