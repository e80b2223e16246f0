package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonpeek/internal/config"
	"github.com/oakwood-commons/jsonpeek/internal/fetch"
	"github.com/oakwood-commons/jsonpeek/internal/formatter"
	"github.com/oakwood-commons/jsonpeek/internal/history"
	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
	"github.com/oakwood-commons/jsonpeek/internal/limiter"
	"github.com/oakwood-commons/jsonpeek/internal/ui"
	"github.com/oakwood-commons/jsonpeek/pkg/loader"
	"github.com/oakwood-commons/jsonpeek/pkg/logger"
	"github.com/oakwood-commons/jsonpeek/pkg/settings"
)

// errShowHelp is returned when there is nothing to print and no TUI to start.
var errShowHelp = errors.New("no input provided")

var (
	interactive  bool
	output       string
	inputFormat  string
	expandPaths  []string
	expandAll    bool
	noColor      bool
	themeName    string
	configFile   string
	debug        bool
	logFile      string
	timeout      time.Duration
	headerFlags  []string
	maxDepth     int
	noHistory    bool
	treeNoValues bool
	treeDepth    int
	treeMaxStr   int
	records      limiter.Config
)

var (
	rootCtx = context.Background()

	// appConfig is the merged configuration loaded in PersistentPreRunE.
	appConfig     config.File
	appConfigPath string
	logOutput     *os.File
)

var rootCmd = &cobra.Command{
	Use:   "jsonpeek [address]",
	Short: "Fetch a JSON document and explore it as a collapsible tree",
	Long: `jsonpeek fetches a JSON document from a URL, a local file or stdin and shows it
as a tree whose objects and arrays expand and collapse one level at a time.

On a terminal it starts an interactive viewer with a URL bar, a raw-text editor
and the history of fetched addresses. When stdout is redirected, or --output is
given, the tree is printed instead.`,
	Example: "  jsonpeek https://api.github.com/repos/golang/go\n" +
		"  jsonpeek testdata/sample.json -o rows --expand owner --expand 'topics'\n" +
		"  curl -s https://example.com/data.json | jsonpeek -o tree\n" +
		"  jsonpeek config.yaml --input-format yaml -i\n",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		appConfigPath = config.ResolvePath(configFile)
		cfg, err := config.Load(appConfigPath)
		if err != nil {
			return err
		}
		appConfig = cfg

		level := int8(0)
		if debug || config.BoolValue(cfg.App.Debug.Enabled, false) {
			level = -1
		}
		path := logFile
		if path == "" {
			path = cfg.App.Debug.LogFile
		}
		var lgr *logr.Logger
		switch {
		case path != "":
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			logOutput = f
			lgr = logger.Setup(logger.Options{Level: level, Output: f})
		case !cmd.HasParent() && wantTUI(cmd):
			// the TUI owns the terminal
			lgr = logger.Get(logger.QuietLevel)
		default:
			lgr = logger.Get(level)
		}
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

		run := settings.NewCliParams()
		run.MinLogLevel = level
		run.LogFile = path
		run.Interactive = !cmd.HasParent() && wantTUI(cmd)
		run.Output = output
		run.Theme = themeName
		run.NoColor = noColor || os.Getenv("NO_COLOR") != "" || stdoutIsPiped()
		run.NoHistory = noHistory || !historyEnabled()
		run.Timeout = timeout
		ctx := logger.WithLogger(context.Background(), lgr)
		rootCtx = settings.IntoContext(ctx, run)
		cmd.SetContext(rootCtx)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
		if logOutput != nil {
			_ = logOutput.Close()
			logOutput = nil
		}
	},
	RunE: runRoot,
}

// wantTUI reports whether the root command should start the interactive
// viewer: -i, or a terminal on stdout with no explicit --output.
func wantTUI(cmd *cobra.Command) bool {
	if interactive {
		return true
	}
	return !stdoutIsPiped() && !cmd.Flags().Changed("output")
}

func historyEnabled() bool {
	return config.BoolValue(appConfig.History.Enabled, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = rootCtx
	}
	run := settings.FromContextOrDefault(ctx)
	lgr := logger.FromContext(ctx)

	if output != "" {
		if err := formatter.ValidateFormat(output); err != nil {
			return err
		}
	}
	format, err := loader.ParseFormat(inputFormat)
	if err != nil {
		return err
	}
	if themeName != "" {
		if _, ok := appConfig.UI.Themes[themeName]; !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", themeName, strings.Join(appConfig.ThemeNames(), ", "))
		}
	}
	if err := records.Validate(); err != nil {
		return err
	}
	expand, err := parseExpandPaths(expandPaths)
	if err != nil {
		return err
	}
	fetcher, err := newFetcher(cmd)
	if err != nil {
		return err
	}

	address := ""
	if len(args) == 1 {
		address = strings.TrimSpace(args[0])
	}
	if address == "" && stdinIsPiped() {
		address = fetch.StdinAddress
	}
	run.Source = settings.Source{Address: address, FromCli: true}

	var store *history.DB
	if !run.NoHistory {
		store, err = openHistory()
		if err != nil {
			// history is a convenience; the document is still shown
			lgr.Error(err, "history unavailable")
			store = nil
		}
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	input := loader.Options{Format: format, MaxDepth: maxDepth}
	if input.MaxDepth <= 0 {
		input.MaxDepth = appConfig.UI.Tree.MaxDepth
	}

	if run.Interactive {
		return runInteractive(ctx, run, fetcher, store, address, input, expand)
	}
	if address == "" {
		_ = cmd.Help()
		return errShowHelp
	}
	return runPrint(ctx, cmd.OutOrStdout(), run, fetcher, store, address, input, expand)
}

// runInteractive starts the TUI. Stdin and --expand need the document up
// front, so those are fetched before the program starts; otherwise the
// viewer fetches the address itself and shows its spinner.
func runInteractive(ctx context.Context, run *settings.Run, f *fetch.Fetcher, store *history.DB, address string, input loader.Options, expand [][]jsontree.Key) error {
	opts := ui.Options{
		Context:   ctx,
		Config:    appConfig,
		Fetcher:   f,
		Address:   address,
		ThemeName: run.Theme,
		NoColor:   noColor || os.Getenv("NO_COLOR") != "",
		Input:     input,
	}
	if store != nil {
		opts.History = store
	}
	if address == fetch.StdinAddress || (address != "" && (len(expand) > 0 || expandAll)) {
		doc, err := fetchDocument(ctx, f, store, address, input, expand)
		if err != nil {
			return err
		}
		opts.Document = doc
		if address == fetch.StdinAddress {
			opts.Address = ""
		}
	}

	progOpts, cleanup := getProgramOptions()
	defer cleanup()
	return ui.RunModel(opts, progOpts...)
}

// runPrint fetches the address and writes the document in the chosen
// format. A document that fails to decode is printed as its error region
// and reported as an error.
func runPrint(ctx context.Context, w io.Writer, run *settings.Run, f *fetch.Fetcher, store *history.DB, address string, input loader.Options, expand [][]jsontree.Key) error {
	doc, err := fetchDocument(ctx, f, store, address, input, expand)
	if err != nil {
		return err
	}

	name := run.Theme
	if name == "" {
		name = appConfig.UI.Theme.Default
		if store != nil {
			if saved, err := store.Theme(name); err == nil {
				name = saved
			}
		}
	}
	width, _ := detectTerminalSize()
	if stdoutIsPiped() {
		width = 0
	}
	format := output
	if format == "" {
		format = formatter.FormatRows
	}
	text, err := formatter.Format(doc, format, formatter.Options{
		Palette: ui.ThemeByName(appConfig, name).Palette(),
		NoColor: run.NoColor,
		Indent:  appConfig.UI.Tree.Indent,
		Width:   width,
		Tree:    formatter.TreeOptions{NoValues: treeNoValues, MaxDepth: treeDepth, MaxStringLen: treeMaxStr},
		Mermaid: formatter.MermaidOptions{NoValues: treeNoValues, MaxDepth: treeDepth, MaxStringLen: treeMaxStr},
		YAML:    formatter.YAMLFormatOptions{Indent: 2, LiteralBlockStrings: true},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", jsontree.ErrorCaption, err)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	if !doc.OK() {
		return fmt.Errorf("%s: %w", jsontree.ErrorCaption, doc.Err())
	}
	return nil
}

// fetchDocument fetches and decodes address, applies the expand flags and
// records the address in the history.
func fetchDocument(ctx context.Context, f *fetch.Fetcher, store *history.DB, address string, input loader.Options, expand [][]jsontree.Key) (*jsontree.Document, error) {
	lgr := logger.FromContext(ctx)
	res, err := f.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	lgr.V(1).Info("fetched", logger.AddressKey, address, logger.BytesKey, len(res.Body), logger.DurationKey, res.Elapsed.String())

	if store != nil && address != fetch.StdinAddress {
		if err := store.Add(address); err != nil {
			lgr.Error(err, "saving history failed", logger.AddressKey, address)
		}
	}

	doc := records.Document(loader.Load(res.Text(), input))
	if !doc.OK() {
		return doc, nil
	}
	if expandAll {
		doc.ExpandAll()
	}
	for i, path := range expand {
		if !doc.Expand(path) {
			return nil, fmt.Errorf("--expand %q does not address a non-empty object or array", expandPaths[i])
		}
	}
	return doc, nil
}

func parseExpandPaths(paths []string) ([][]jsontree.Key, error) {
	out := make([][]jsontree.Key, 0, len(paths))
	for _, p := range paths {
		keys, err := jsontree.ParsePath(p)
		if err != nil {
			return nil, fmt.Errorf("--expand: %w", err)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("--expand: empty path")
		}
		out = append(out, keys)
	}
	return out, nil
}

// parseHeaders turns repeated "Name: value" or "Name=value" flags into a map.
func parseHeaders(values []string) (map[string]string, error) {
	headers := make(map[string]string, len(values))
	for _, v := range values {
		i := strings.IndexAny(v, ":=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid header %q (expected Name=value)", v)
		}
		name := strings.TrimSpace(v[:i])
		if name == "" {
			return nil, fmt.Errorf("invalid header %q (expected Name=value)", v)
		}
		headers[name] = strings.TrimSpace(v[i+1:])
	}
	return headers, nil
}

// newFetcher builds the fetcher from the fetch config section, with the
// --timeout and --header flags applied on top.
func newFetcher(cmd *cobra.Command) (*fetch.Fetcher, error) {
	fc := appConfig.Fetch
	headers := make(map[string]string, len(fc.Headers)+len(headerFlags))
	for k, v := range fc.Headers {
		headers[k] = v
	}
	extra, err := parseHeaders(headerFlags)
	if err != nil {
		return nil, err
	}
	for k, v := range extra {
		headers[k] = v
	}
	t := fc.Timeout
	if cmd.Flags().Changed("timeout") {
		if timeout < 0 {
			return nil, fmt.Errorf("--timeout must not be negative")
		}
		t = timeout
	}
	return fetch.New(fetch.Options{
		Timeout:   t,
		MaxBytes:  fc.MaxBytes,
		UserAgent: fc.UserAgent,
		Headers:   headers,
		Stdin:     stdinReader,
	}), nil
}

// stdinReader is the source of the "-" address.
var stdinReader io.Reader = os.Stdin

func init() { //nolint:gochecknoinits
	flags := rootCmd.Flags()
	flags.BoolVarP(&interactive, "interactive", "i", false, "start the interactive viewer even when stdout is not a terminal")
	flags.StringVarP(&output, "output", "o", "", "print instead of starting the viewer: rows|tree|mermaid|json|yaml|toml|raw (default rows)")
	flags.StringVar(&inputFormat, "input-format", string(loader.FormatJSON), "input syntax: "+strings.Join(loader.Formats(), "|"))
	flags.StringArrayVar(&expandPaths, "expand", nil, "expand the container at a path such as owner, items[0] or a.b (repeatable)")
	flags.BoolVar(&expandAll, "expand-all", false, "expand every object and array")
	flags.BoolVar(&noColor, "no-color", false, "disable color output")
	flags.StringVar(&themeName, "theme", "", "display mode: light|dark (default from history, then config)")
	flags.DurationVar(&timeout, "timeout", 0, "HTTP request timeout (default from config)")
	flags.StringArrayVarP(&headerFlags, "header", "H", nil, "extra request header Name=value (repeatable)")
	flags.IntVar(&maxDepth, "max-depth", 0, "reject documents nested deeper than this (default from config)")
	flags.BoolVar(&noHistory, "no-history", false, "do not read or record the URL history")
	flags.BoolVar(&treeNoValues, "tree-no-values", false, "show structure only in tree and mermaid output")
	flags.IntVar(&treeDepth, "tree-depth", 0, "limit tree and mermaid output depth (0 = unlimited)")
	flags.IntVar(&treeMaxStr, "tree-max-string", 0, "truncate tree and mermaid values to this many columns (0 = unlimited)")
	flags.IntVar(&records.Limit, "limit", 0, "keep only the first N top-level records (0 = all)")
	flags.IntVar(&records.Offset, "offset", 0, "skip the first N top-level records")
	flags.IntVar(&records.Tail, "tail", 0, "keep only the last N top-level records")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&configFile, "config-file", "", "path to a YAML config file")
	pflags.BoolVar(&debug, "debug", false, "log at debug level")
	pflags.StringVar(&logFile, "log-file", "", "append JSON logs to this file")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
