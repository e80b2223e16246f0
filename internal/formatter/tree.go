package formatter

import (
	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen truncates inline values to this many columns; 0 or
	// negative disables truncation.
	MaxStringLen int
}

// FormatAsTree renders the whole node as an ASCII tree, every container
// expanded, members in document order. The root line is the header.
func FormatAsTree(root jsontree.Node, opts TreeOptions) string {
	tree := treeprint.NewWithRoot(jsontree.Header(root))
	if !root.Expandable() {
		text, glyph := jsontree.LeafText(root)
		tree.AddNode(leafLabel("", text, glyph, opts))
		return tree.String()
	}
	buildTree(tree, root, opts, 0)
	return tree.String()
}

func buildTree(branch treeprint.Tree, n jsontree.Node, opts TreeOptions, depth int) {
	for _, k := range n.ChildKeys() {
		child, _ := n.Child(k)
		label := k.Label()
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			branch.AddNode(label + jsontree.Separator + " ...")
			continue
		}
		if !child.Expandable() {
			text, glyph := jsontree.LeafText(child)
			branch.AddNode(leafLabel(label, text, glyph, opts))
			continue
		}
		sub := branch.AddBranch(label + jsontree.Separator + " " + jsontree.SummaryText(child))
		buildTree(sub, child, opts, depth+1)
	}
}

func leafLabel(key, text, glyph string, opts TreeOptions) string {
	if opts.NoValues {
		if key == "" {
			return "(value)"
		}
		return key
	}
	if glyph != "" {
		text = glyph + " " + text
	}
	text = truncate(text, opts.MaxStringLen)
	if key == "" {
		return text
	}
	return key + jsontree.Separator + " " + text
}
