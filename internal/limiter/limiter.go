// Package limiter trims the top-level records of a document: the items of
// a root array or the members of a root object.
package limiter

import (
	"fmt"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Limit and Tail are mutually exclusive, Offset is ignored with Tail, and
// all values must be non-negative.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply returns root with only the selected records. Objects keep their
// member order. Leaves are returned unchanged.
func (c Config) Apply(root jsontree.Node) jsontree.Node {
	if !c.IsActive() {
		return root
	}
	switch root.Kind() {
	case jsontree.KindArray:
		items := root.Items()
		start, end := c.window(len(items))
		return jsontree.Array(items[start:end]...)
	case jsontree.KindObject:
		members := root.Members()
		start, end := c.window(len(members))
		return jsontree.Object(members[start:end]...)
	default:
		return root
	}
}

// Document applies the limits to a decoded document. The expansion state
// starts over since the record set changed; failed documents pass through.
func (c Config) Document(doc *jsontree.Document) *jsontree.Document {
	if !c.IsActive() || doc == nil || !doc.OK() || !doc.Root().IsContainer() {
		return doc
	}
	return jsontree.FromNode(c.Apply(doc.Root()), doc.Raw())
}

// window returns the [start, end) bounds of the selected records.
func (c Config) window(length int) (int, int) {
	if c.Tail > 0 {
		start := length - c.Tail
		if start < 0 {
			start = 0
		}
		return start, length
	}

	start := c.Offset
	if start > length {
		start = length
	}
	end := length
	if c.Limit > 0 && start+c.Limit < length {
		end = start + c.Limit
	}
	return start, end
}
