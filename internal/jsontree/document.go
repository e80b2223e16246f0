package jsontree

// ErrorCaption is the fixed caption of the raw-text error region.
const ErrorCaption = "Error to parse JSON"

// Document is one input text run through the display pipeline. The text is
// decoded exactly once, in Load; a failure short-circuits all tree logic and
// the document only exposes the verbatim text.
type Document struct {
	raw  string
	root Node
	err  error
	exp  *Expansion
}

// Load decodes text and returns the resulting document. It never fails:
// decode errors are kept on the document and surfaced through View.
func Load(text string, opts ...DecodeOption) *Document {
	d := &Document{raw: text}
	root, err := Decode([]byte(text), opts...)
	if err != nil {
		d.err = err
		return d
	}
	d.root = root
	d.exp = NewExpansion()
	return d
}

// FromNode wraps an already classified value.
func FromNode(root Node, raw string) *Document {
	return &Document{raw: raw, root: root, exp: NewExpansion()}
}

// Failed returns a document for text that some other decoder rejected. It
// takes the same raw-text fallback as a JSON decode failure.
func Failed(text string, err error) *Document {
	return &Document{raw: text, err: err}
}

// Raw returns the original text.
func (d *Document) Raw() string { return d.raw }

// Err returns the decode failure, nil when the text decoded.
func (d *Document) Err() error { return d.err }

// OK reports whether the text decoded.
func (d *Document) OK() bool { return d.err == nil }

// Root returns the decoded root; null when decoding failed.
func (d *Document) Root() Node { return d.root }

// Expansion returns the record owned by the root container.
func (d *Document) Expansion() *Expansion { return d.exp }

// View is everything the presentation layer needs to draw the document.
type View struct {
	// Failed selects the error region; only Caption and Raw are set then.
	Failed  bool
	Caption string
	Raw     string

	Header   string
	RootKind Kind
	// RootValue is the inline value of a root that is a leaf or an empty
	// container. Non-empty container roots are drawn as Rows instead.
	RootValue string
	RootGlyph string
	Rows      []Row
}

// View renders the document with the current expansion state.
func (d *Document) View() View {
	if d.err != nil {
		return View{Failed: true, Caption: ErrorCaption, Raw: d.raw}
	}
	v := View{Header: Header(d.root), RootKind: d.root.Kind()}
	if !d.root.Expandable() {
		v.RootValue, v.RootGlyph = LeafText(d.root)
		return v
	}
	v.Rows = Render(d.root, d.exp)
	return v
}

// Rows is shorthand for View().Rows.
func (d *Document) Rows() []Row {
	if d.err != nil {
		return nil
	}
	return Render(d.root, d.exp)
}

// Toggle inverts the expansion of the child at path. Every element but the
// last must address an expanded container; the last must address an
// expandable child. It returns false (and changes nothing) otherwise.
func (d *Document) Toggle(path []Key) bool {
	exp, container, ok := d.walk(path)
	if !ok {
		return false
	}
	k := resolveKey(container, path[len(path)-1])
	child, found := container.Child(k)
	if !found || !child.Expandable() {
		return false
	}
	exp.Toggle(k)
	return true
}

// Expand expands every container along path, leaving already expanded
// ones untouched. It returns false when path does not address an
// expandable child.
func (d *Document) Expand(path []Key) bool {
	if d.err != nil || len(path) == 0 {
		return false
	}
	node := d.root
	exp := d.exp
	for _, raw := range path {
		k := resolveKey(node, raw)
		child, ok := node.Child(k)
		if !ok || !child.Expandable() {
			return false
		}
		exp = exp.Expand(k)
		node = child
	}
	return true
}

// ExpandAll expands every container in the document.
func (d *Document) ExpandAll() {
	if d.err != nil {
		return
	}
	d.exp.ExpandAll(d.root)
}

// CollapseAll collapses every container in the document.
func (d *Document) CollapseAll() {
	if d.err != nil {
		return
	}
	d.exp.Reset()
}

// NodeAt returns the node addressed by path regardless of expansion.
func (d *Document) NodeAt(path []Key) (Node, bool) {
	if d.err != nil {
		return Node{}, false
	}
	node := d.root
	for _, raw := range path {
		child, ok := node.Child(resolveKey(node, raw))
		if !ok {
			return Node{}, false
		}
		node = child
	}
	return node, true
}

// walk follows path[:len(path)-1] through expanded containers and returns
// the record and node of the container holding the last element.
func (d *Document) walk(path []Key) (*Expansion, Node, bool) {
	if d.err != nil || len(path) == 0 {
		return nil, Node{}, false
	}
	exp := d.exp
	node := d.root
	for _, raw := range path[:len(path)-1] {
		k := resolveKey(node, raw)
		if !exp.Expanded(k) {
			return nil, Node{}, false
		}
		child, ok := node.Child(k)
		if !ok {
			return nil, Node{}, false
		}
		exp = exp.Child(k)
		node = child
	}
	return exp, node, true
}
