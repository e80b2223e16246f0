package formatter

import (
	"math"

	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// tomlRootKey wraps non-object roots, since a TOML document is a table.
const tomlRootKey = "value"

// FormatTOMLText renders n as TOML. TOML has no null, so null members and
// elements are dropped; a root that is not an object is wrapped under the
// "value" key. TOML tables are unordered, members are emitted sorted.
func FormatTOMLText(n jsontree.Node) (string, error) {
	var doc map[string]any
	if n.Kind() == jsontree.KindObject {
		doc, _ = tomlValue(n).(map[string]any)
	} else {
		doc = map[string]any{}
		if v := tomlValue(n); v != nil {
			doc[tomlRootKey] = v
		}
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func tomlValue(n jsontree.Node) any {
	switch n.Kind() {
	case jsontree.KindNull:
		return nil
	case jsontree.KindBool:
		return n.BoolValue()
	case jsontree.KindNumber:
		v := n.NumberValue().Value
		if !math.IsInf(v, 0) && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v)
		}
		return v
	case jsontree.KindArray:
		out := make([]any, 0, n.Len())
		for _, it := range n.Items() {
			if v := tomlValue(it); v != nil {
				out = append(out, v)
			}
		}
		return out
	case jsontree.KindObject:
		out := make(map[string]any, n.Len())
		for _, m := range n.Members() {
			if v := tomlValue(m.Value); v != nil {
				out[m.Key] = v
			}
		}
		return out
	default:
		return n.StringValue()
	}
}
