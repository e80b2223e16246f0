// Package tui embeds the jsonpeek viewer in other programs: Run starts the
// interactive UI on a value or an address and RenderSnapshot draws one
// frame of it without a terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/go-json-experiment/json"
	"golang.org/x/term"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/history"
	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
	"github.com/oakwood-commons/jsonpeek/internal/ui"
	"github.com/oakwood-commons/jsonpeek/pkg/loader"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// documentFor turns a host value into a document. Text goes through the
// configured decoder; any other value is marshalled to JSON first, so
// struct fields keep their declaration order and map keys are sorted.
func documentFor(root any, input loader.Options) (*jsontree.Document, error) {
	switch v := root.(type) {
	case nil:
		return nil, nil
	case string:
		return loader.Load(v, input), nil
	case []byte:
		return loader.Load(string(v), input), nil
	}
	data, err := json.Marshal(root, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode root value: %w", err)
	}
	return loader.Load(string(data), loader.Options{Format: loader.FormatJSON, MaxDepth: input.MaxDepth}), nil
}

// Run starts the viewer on root and blocks until the user quits. A nil
// root with cfg.Address set fetches the address instead. Host applications
// can pass tea.ProgramOption values to control IO.
func Run(root any, cfg Config, opts ...tea.ProgramOption) error {
	file, input, err := cfg.resolve()
	if err != nil {
		return err
	}
	doc, err := documentFor(root, input)
	if err != nil {
		return err
	}
	uiOpts := ui.Options{
		Context:   cfg.Context,
		Config:    file,
		Fetcher:   cfg.fetcher(file),
		Address:   cfg.Address,
		Document:  doc,
		ThemeName: cfg.ThemeName,
		NoColor:   cfg.NoColor,
		Input:     input,
	}
	if cfg.History && config.BoolValue(file.History.Enabled, true) {
		path, err := file.HistoryPath()
		if err != nil {
			return err
		}
		db, err := history.Open(path, file.History.Limit)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()
		uiOpts.History = db
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		opts = append(opts, tea.WithWindowSize(cfg.Width, cfg.Height))
	}
	return ui.RunModel(uiOpts, opts...)
}

// RenderSnapshot draws a single frame of the viewer on root and returns
// it. Nothing is fetched and no history is recorded.
func RenderSnapshot(root any, cfg Config) (string, error) {
	file, input, err := cfg.resolve()
	if err != nil {
		return "", err
	}
	doc, err := documentFor(root, input)
	if err != nil {
		return "", err
	}
	return ui.RenderModelSnapshot(ui.Options{
		Context:   cfg.Context,
		Config:    file,
		Address:   cfg.Address,
		Document:  doc,
		ThemeName: cfg.ThemeName,
		NoColor:   cfg.NoColor,
		Input:     input,
	}, ui.SnapshotConfig{Width: cfg.Width, Height: cfg.Height, StartKeys: cfg.StartKeys}), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
