package loader

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// loadTOML converts a TOML document. Table keys come out sorted since the
// decoder does not keep their order.
func loadTOML(input string, maxDepth int) (jsontree.Node, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return jsontree.Node{}, fmt.Errorf("invalid TOML: %w", err)
	}
	return fromTOML(data, 0, maxDepth)
}

func fromTOML(v any, depth, maxDepth int) (jsontree.Node, error) {
	if depth > maxDepth {
		return jsontree.Node{}, jsontree.ErrTooDeep
	}
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]jsontree.Member, 0, len(keys))
		for _, k := range keys {
			child, err := fromTOML(val[k], depth+1, maxDepth)
			if err != nil {
				return jsontree.Node{}, err
			}
			members = append(members, jsontree.Member{Key: k, Value: child})
		}
		return jsontree.Object(members...), nil
	case []any:
		items := make([]jsontree.Node, 0, len(val))
		for _, it := range val {
			child, err := fromTOML(it, depth+1, maxDepth)
			if err != nil {
				return jsontree.Node{}, err
			}
			items = append(items, child)
		}
		return jsontree.Array(items...), nil
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return jsontree.Other(fmt.Sprint(val)), nil
		}
		return jsontree.Float(val), nil
	case time.Time:
		return jsontree.String(val.Format(time.RFC3339Nano)), nil
	case toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return jsontree.String(fmt.Sprint(val)), nil
	default:
		return jsontree.Classify(val), nil
	}
}
