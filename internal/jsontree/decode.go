package jsontree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// DefaultMaxDepth bounds container nesting accepted by Decode.
const DefaultMaxDepth = 512

// ErrTooDeep is reported (wrapped in a *DecodeError) when a document nests
// containers deeper than the configured maximum.
var ErrTooDeep = errors.New("maximum nesting depth exceeded")

// DecodeError is the single failure kind of the document pipeline: the input
// is not well-formed JSON.
type DecodeError struct {
	// Offset is the byte offset at which decoding stopped.
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	maxDepth int
}

// WithMaxDepth overrides DefaultMaxDepth. Values <= 0 keep the default.
func WithMaxDepth(depth int) DecodeOption {
	return func(c *decodeConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// Decode parses exactly one JSON value from data, keeping object members in
// document order. Duplicate object keys collapse to the last value, kept at
// the position of the first occurrence. Trailing non-whitespace input is an
// error.
func Decode(data []byte, opts ...DecodeOption) (Node, error) {
	cfg := decodeConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec := jsontext.NewDecoder(bytes.NewReader(data), jsontext.AllowDuplicateNames(true))
	d := &decoder{dec: dec, maxDepth: cfg.maxDepth}

	root, err := d.readValue(0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Node{}, &DecodeError{Offset: dec.InputOffset(), Err: err}
	}
	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return Node{}, &DecodeError{Offset: dec.InputOffset(), Err: err}
	}
	return root, nil
}

type decoder struct {
	dec      *jsontext.Decoder
	maxDepth int
}

func (d *decoder) readValue(depth int) (Node, error) {
	tok, err := d.dec.ReadToken()
	if err != nil {
		return Node{}, err
	}
	switch tok.Kind() {
	case 'n':
		return Null(), nil
	case 't':
		return Bool(true), nil
	case 'f':
		return Bool(false), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		return NumberLiteral(tok.String()), nil
	case '[':
		if depth+1 > d.maxDepth {
			return Node{}, ErrTooDeep
		}
		return d.readArray(depth + 1)
	case '{':
		if depth+1 > d.maxDepth {
			return Node{}, ErrTooDeep
		}
		return d.readObject(depth + 1)
	default:
		return Node{}, fmt.Errorf("unexpected token %v", tok.Kind())
	}
}

func (d *decoder) readArray(depth int) (Node, error) {
	items := []Node{}
	for d.dec.PeekKind() != ']' {
		item, err := d.readValue(depth)
		if err != nil {
			return Node{}, err
		}
		items = append(items, item)
	}
	if _, err := d.dec.ReadToken(); err != nil {
		return Node{}, err
	}
	return Array(items...), nil
}

func (d *decoder) readObject(depth int) (Node, error) {
	members := []Member{}
	seen := map[string]int{}
	for d.dec.PeekKind() != '}' {
		name, err := d.dec.ReadToken()
		if err != nil {
			return Node{}, err
		}
		key := name.String()
		val, err := d.readValue(depth)
		if err != nil {
			return Node{}, err
		}
		if i, dup := seen[key]; dup {
			members[i].Value = val
			continue
		}
		seen[key] = len(members)
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := d.dec.ReadToken(); err != nil {
		return Node{}, err
	}
	return Object(members...), nil
}
