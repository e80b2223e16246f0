// Package jsontree turns decoded JSON into a tagged node tree and renders it
// as rows of a collapsible tree view. Each container owns the expansion state
// of its direct children; nothing is shared between siblings.
package jsontree

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Kind is the variant tag of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	// KindOther is the wildcard leaf for values that are none of the above.
	KindOther
)

// String returns the lower-case kind name used in headers and logs.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "other"
	}
}

// IsContainer reports whether the kind can hold children.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Number is a JSON number. Literal keeps the text as it appeared in the
// input when the node came from the decoder.
type Number struct {
	Literal string
	Value   float64
	// Overflow is set when Literal does not fit a float64 (e.g. 1e400).
	Overflow bool
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Node
}

// Node is a classified JSON value. The zero Node is null.
type Node struct {
	kind    Kind
	boolean bool
	number  Number
	text    string // string value, or the textual form of KindOther
	items   []Node
	members []Member
}

// Null returns a null node.
func Null() Node { return Node{kind: KindNull} }

// Bool returns a boolean node.
func Bool(b bool) Node { return Node{kind: KindBool, boolean: b} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, text: s} }

// Float returns a number node for v.
func Float(v float64) Node {
	return Node{kind: KindNumber, number: Number{Value: v}}
}

// NumberLiteral returns a number node from its JSON text. The caller is
// expected to pass a syntactically valid JSON number.
func NumberLiteral(lit string) Node {
	n := Number{Literal: lit}
	v, err := strconv.ParseFloat(lit, 64)
	n.Value = v
	if err != nil || math.IsInf(v, 0) {
		n.Overflow = true
	}
	return Node{kind: KindNumber, number: n}
}

// Array returns an array node holding items.
func Array(items ...Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{kind: KindArray, items: items}
}

// Object returns an object node holding members in the given order.
// Keys are expected to be unique; Decode guarantees it.
func Object(members ...Member) Node {
	if members == nil {
		members = []Member{}
	}
	return Node{kind: KindObject, members: members}
}

// Other returns an opaque leaf rendered as text.
func Other(text string) Node { return Node{kind: KindOther, text: text} }

// Kind returns the variant tag.
func (n Node) Kind() Kind { return n.kind }

// BoolValue returns the boolean payload; false for other kinds.
func (n Node) BoolValue() bool { return n.boolean }

// NumberValue returns the number payload; zero for other kinds.
func (n Node) NumberValue() Number { return n.number }

// StringValue returns the string payload, or the textual form of an opaque leaf.
func (n Node) StringValue() string { return n.text }

// Items returns array elements. The slice must not be modified.
func (n Node) Items() []Node { return n.items }

// Members returns object members in document order. The slice must not be modified.
func (n Node) Members() []Member { return n.members }

// Len returns the number of children of a container, 0 for leaves.
func (n Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.members)
	default:
		return 0
	}
}

// IsContainer reports whether n is an array or object.
func (n Node) IsContainer() bool { return n.kind.IsContainer() }

// Expandable reports whether n is a non-empty container. Only expandable
// children get a toggle affordance.
func (n Node) Expandable() bool { return n.IsContainer() && n.Len() > 0 }

// Child returns the direct child addressed by k.
func (n Node) Child(k Key) (Node, bool) {
	switch n.kind {
	case KindArray:
		if !k.IsIndex() || k.Index < 0 || k.Index >= len(n.items) {
			return Node{}, false
		}
		return n.items[k.Index], true
	case KindObject:
		if k.IsIndex() {
			return Node{}, false
		}
		for _, m := range n.members {
			if m.Key == k.Name {
				return m.Value, true
			}
		}
	}
	return Node{}, false
}

// ChildKeys returns the keys of the direct children in display order.
func (n Node) ChildKeys() []Key {
	switch n.kind {
	case KindArray:
		keys := make([]Key, len(n.items))
		for i := range n.items {
			keys[i] = IndexKey(i)
		}
		return keys
	case KindObject:
		keys := make([]Key, len(n.members))
		for i, m := range n.members {
			keys[i] = NameKey(m.Key)
		}
		return keys
	}
	return nil
}

// Interface converts n back into plain Go values (map[string]any, []any,
// float64, string, bool, nil). Object order is lost in the map.
func (n Node) Interface() any {
	switch n.kind {
	case KindBool:
		return n.boolean
	case KindNumber:
		if n.number.Overflow {
			return json.Number(n.number.Literal)
		}
		return n.number.Value
	case KindString, KindOther:
		return n.text
	case KindArray:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(n.members))
		for _, m := range n.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// Classify maps an already-decoded Go value onto exactly one variant.
// It accepts the shapes produced by encoding/json, YAML decoders and plain Go
// literals. Maps without order are classified with their keys sorted so the
// result is stable. Nil slices and maps of any type are empty containers,
// only a nil interface or pointer is Null. Anything unrecognised becomes an
// opaque KindOther leaf.
func Classify(v any) Node {
	switch val := v.(type) {
	case nil:
		return Null()
	case Node:
		return val
	case *Node:
		if val == nil {
			return Null()
		}
		return *val
	case []any:
		items := make([]Node, len(val))
		for i, it := range val {
			items[i] = Classify(it)
		}
		return Array(items...)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: Classify(val[k])}
		}
		return Object(members...)
	case []Member:
		return Object(val...)
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case json.Number:
		return NumberLiteral(string(val))
	case float64:
		return Float(val)
	case float32:
		return Float(float64(val))
	case int:
		return Float(float64(val))
	case int64:
		return Float(float64(val))
	case int32:
		return Float(float64(val))
	case uint64:
		return Float(float64(val))
	}
	return classifyReflect(v)
}

// classifyReflect handles typed containers and numeric kinds (e.g. []string,
// map[string]int, uint8) that the fast path above does not list.
func classifyReflect(v any) Node {
	rv := reflect.ValueOf(v)
	//exhaustive:ignore
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return Classify(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Node, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = Classify(rv.Index(i).Interface())
		}
		return Array(items...)
	case reflect.Map:
		values := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			values[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return Classify(values)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Float(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Float(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	default:
		return Other(fmt.Sprint(v))
	}
}
