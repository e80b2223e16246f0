package loader

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// loadYAML converts one or more YAML documents. Mapping order is kept. A
// stream with several documents becomes an array of them.
func loadYAML(input string, maxDepth int) (jsontree.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var docs []jsontree.Node
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return jsontree.Node{}, fmt.Errorf("invalid YAML: %w", err)
		}
		n, err := fromYAML(&doc, 0, maxDepth)
		if err != nil {
			return jsontree.Node{}, err
		}
		docs = append(docs, n)
	}
	switch len(docs) {
	case 0:
		return jsontree.Node{}, ErrEmptyInput
	case 1:
		return docs[0], nil
	default:
		return jsontree.Array(docs...), nil
	}
}

func fromYAML(n *yaml.Node, depth, maxDepth int) (jsontree.Node, error) {
	if depth > maxDepth {
		return jsontree.Node{}, jsontree.ErrTooDeep
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsontree.Null(), nil
		}
		return fromYAML(n.Content[0], depth, maxDepth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return jsontree.Null(), nil
		}
		return fromYAML(n.Alias, depth+1, maxDepth)
	case yaml.SequenceNode:
		items := make([]jsontree.Node, 0, len(n.Content))
		for _, c := range n.Content {
			it, err := fromYAML(c, depth+1, maxDepth)
			if err != nil {
				return jsontree.Node{}, err
			}
			items = append(items, it)
		}
		return jsontree.Array(items...), nil
	case yaml.MappingNode:
		var members []jsontree.Member
		pos := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			val, err := fromYAML(n.Content[i+1], depth+1, maxDepth)
			if err != nil {
				return jsontree.Node{}, err
			}
			if at, dup := pos[key]; dup {
				members[at].Value = val
				continue
			}
			pos[key] = len(members)
			members = append(members, jsontree.Member{Key: key, Value: val})
		}
		return jsontree.Object(members...), nil
	default:
		return yamlScalar(n)
	}
}

func yamlScalar(n *yaml.Node) (jsontree.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsontree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return jsontree.Node{}, err
		}
		return jsontree.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return jsontree.Node{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return jsontree.Other(n.Value), nil
		}
		return jsontree.Float(f), nil
	default:
		return jsontree.String(n.Value), nil
	}
}
