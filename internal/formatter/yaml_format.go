package formatter

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent              int
	LiteralBlockStrings bool
}

// FormatYAMLText renders n as YAML, keeping object members in document
// order. Multi-line strings can be emitted as literal blocks ("|").
func FormatYAMLText(n jsontree.Node, opts YAMLFormatOptions) (string, error) {
	node := yamlNode(n)
	if opts.LiteralBlockStrings {
		applyLiteralStyle(node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func yamlNode(n jsontree.Node) *yaml.Node {
	switch n.Kind() {
	case jsontree.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case jsontree.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.BoolValue())}
	case jsontree.KindNumber:
		num := n.NumberValue()
		if num.Overflow {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: num.Literal}
		}
		tag := "!!float"
		if num.Value == math.Trunc(num.Value) && math.Abs(num.Value) < 1<<53 {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: jsontree.FormatNumber(num)}
	case jsontree.KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if n.Len() == 0 {
			seq.Style = yaml.FlowStyle
		}
		for _, it := range n.Items() {
			seq.Content = append(seq.Content, yamlNode(it))
		}
		return seq
	case jsontree.KindObject:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if n.Len() == 0 {
			m.Style = yaml.FlowStyle
		}
		for _, mem := range n.Members() {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: mem.Key},
				yamlNode(mem.Value))
		}
		return m
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.StringValue()}
	}
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}
