package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// Format names the syntax of an input text.
type Format string

const (
	// FormatJSON is the default: one JSON value, decoded once.
	FormatJSON Format = "json"
	// FormatYAML accepts single and multi-document YAML.
	FormatYAML Format = "yaml"
	// FormatTOML accepts a TOML document.
	FormatTOML Format = "toml"
	// FormatNDJSON accepts one JSON value per line.
	FormatNDJSON Format = "ndjson"
	// FormatJWT accepts a JWT and shows its header and payload.
	FormatJWT Format = "jwt"
	// FormatAuto detects the format from the text.
	FormatAuto Format = "auto"
)

// ErrEmptyInput is reported for blank non-JSON input.
var ErrEmptyInput = errors.New("empty input")

// Formats lists the accepted values for ParseFormat.
func Formats() []string {
	return []string{
		string(FormatJSON), string(FormatYAML), string(FormatTOML),
		string(FormatNDJSON), string(FormatJWT), string(FormatAuto),
	}
}

// ParseFormat validates a format name. The empty string means FormatJSON.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FormatJSON, nil
	}
	for _, known := range Formats() {
		if string(f) == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown input format %q (expected one of %s)", name, strings.Join(Formats(), ", "))
}

// Options configure Load.
type Options struct {
	Format Format
	// MaxDepth bounds container nesting for every format; <= 0 means
	// jsontree.DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return jsontree.DefaultMaxDepth
}

// Load turns text into a document. JSON input goes straight through
// jsontree.Load; other formats are converted to the same node model, and
// a conversion failure yields the raw-text fallback document.
func Load(text string, opts Options) *jsontree.Document {
	depth := jsontree.WithMaxDepth(opts.MaxDepth)
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	if format == FormatAuto {
		root, err := jsontree.Decode([]byte(text), depth)
		if err == nil {
			return jsontree.FromNode(root, text)
		}
		format = Detect(text)
		if format == FormatJSON {
			return jsontree.Failed(text, err)
		}
	}
	if format == FormatJSON {
		return jsontree.Load(text, depth)
	}

	root, err := convert(text, format, opts.maxDepth())
	if err != nil {
		return jsontree.Failed(text, err)
	}
	return jsontree.FromNode(root, text)
}

func convert(text string, format Format, maxDepth int) (jsontree.Node, error) {
	if strings.TrimSpace(text) == "" {
		return jsontree.Node{}, ErrEmptyInput
	}
	switch format {
	case FormatYAML:
		return loadYAML(text, maxDepth)
	case FormatTOML:
		return loadTOML(text, maxDepth)
	case FormatNDJSON:
		return loadNDJSON(text, maxDepth)
	case FormatJWT:
		return DecodeJWT(text)
	default:
		return jsontree.Node{}, fmt.Errorf("unknown input format %q", format)
	}
}

// Detect guesses the format of text that is not a single JSON value.
// Text that opens like JSON but matches no other format is reported as
// FormatJSON so it keeps the JSON error.
func Detect(input string) Format {
	input = strings.TrimSpace(input)
	if IsJWT(input) {
		return FormatJWT
	}
	if strings.HasPrefix(input, "---") || strings.Contains(input, "\n---") {
		return FormatYAML
	}
	if isLikelyNDJSON(strings.Split(input, "\n")) {
		return FormatNDJSON
	}
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}
	return FormatYAML
}

// isLikelyNDJSON requires several non-empty lines, the first of which is a
// complete JSON value, and a majority that open like JSON containers.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmpty := 0
	firstOK := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if nonEmpty == 0 {
			_, err := jsontree.Decode([]byte(trimmed))
			firstOK = err == nil
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return firstOK && nonEmpty > 1 && jsonCount > nonEmpty/2
}

var (
	// [server], [[items]], ["table name"], [database.credentials]
	tomlSection = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// name = "value", database.host = "localhost"
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

func isLikelyTOML(input string) bool {
	sections := 0
	pairs := 0
	nonEmpty := 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			pairs++
		}
	}
	if sections > 0 {
		return true
	}
	return nonEmpty > 0 && pairs > nonEmpty/2
}

// loadNDJSON decodes one value per line. Lines that are not JSON are kept
// as strings.
func loadNDJSON(input string, maxDepth int) (jsontree.Node, error) {
	var items []jsontree.Node
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n, err := jsontree.Decode([]byte(line), jsontree.WithMaxDepth(maxDepth))
		if err != nil {
			if errors.Is(err, jsontree.ErrTooDeep) {
				return jsontree.Node{}, err
			}
			items = append(items, jsontree.String(line))
			continue
		}
		items = append(items, n)
	}
	if len(items) == 0 {
		return jsontree.Node{}, ErrEmptyInput
	}
	return jsontree.Array(items...), nil
}
