package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is TD.
	Direction string
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// MaxStringLen truncates inline values; 0 or negative disables it.
	MaxStringLen int
}

// mermaidBuilder tracks state during diagram generation.
type mermaidBuilder struct {
	lines  []string
	nodeID int
	opts   MermaidOptions
}

// FormatAsMermaid renders root as a Mermaid flowchart. The root node is
// labelled with the header; containers get one child node per member in
// document order and leaves carry their value.
func FormatAsMermaid(root jsontree.Node, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	b := &mermaidBuilder{
		lines: []string{"graph " + opts.Direction},
		opts:  opts,
	}
	rootID := b.nextID()
	b.addNode(rootID, jsontree.Header(root))
	if root.Expandable() {
		b.build(rootID, root, 0)
	} else {
		text, glyph := jsontree.LeafText(root)
		leafID := b.nextID()
		b.addNode(leafID, leafLabel("", text, glyph, b.treeOptions()))
		b.addEdge(rootID, leafID)
	}
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) treeOptions() TreeOptions {
	return TreeOptions{NoValues: b.opts.NoValues, MaxStringLen: b.opts.MaxStringLen}
}

func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

func (b *mermaidBuilder) addNode(id, label string) {
	label = strings.ReplaceAll(label, `"`, `'`)
	label = strings.ReplaceAll(label, "\n", " ")
	label = strings.ReplaceAll(label, "\r", "")
	b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, label))
}

func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

func (b *mermaidBuilder) build(parentID string, n jsontree.Node, depth int) {
	if b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth {
		id := b.nextID()
		b.addNode(id, "...")
		b.addEdge(parentID, id)
		return
	}
	for _, k := range n.ChildKeys() {
		child, _ := n.Child(k)
		id := b.nextID()
		if child.Expandable() {
			b.addNode(id, k.Label()+jsontree.Separator+" "+jsontree.SummaryText(child))
			b.addEdge(parentID, id)
			b.build(id, child, depth+1)
			continue
		}
		text, glyph := jsontree.LeafText(child)
		b.addNode(id, leafLabel(k.Label(), text, glyph, b.treeOptions()))
		b.addEdge(parentID, id)
	}
}
