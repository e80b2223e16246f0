package formatter

import (
	"bytes"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

// FormatJSONText re-encodes n as JSON with object members in document order.
// Numbers keep their input literal when they came from the decoder. An
// empty indent produces compact output.
func FormatJSONText(n jsontree.Node, indent string) (string, error) {
	var buf bytes.Buffer
	var opts []jsontext.Options
	if indent != "" {
		opts = append(opts, jsontext.WithIndent(indent))
	}
	enc := jsontext.NewEncoder(&buf, opts...)
	if err := writeJSON(enc, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(enc *jsontext.Encoder, n jsontree.Node) error {
	switch n.Kind() {
	case jsontree.KindNull:
		return enc.WriteToken(jsontext.Null)
	case jsontree.KindBool:
		return enc.WriteToken(jsontext.Bool(n.BoolValue()))
	case jsontree.KindNumber:
		num := n.NumberValue()
		if num.Literal != "" {
			return enc.WriteValue(jsontext.Value(num.Literal))
		}
		return enc.WriteToken(jsontext.Float(num.Value))
	case jsontree.KindString, jsontree.KindOther:
		return enc.WriteToken(jsontext.String(n.StringValue()))
	case jsontree.KindArray:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, it := range n.Items() {
			if err := writeJSON(enc, it); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	default:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range n.Members() {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}
			if err := writeJSON(enc, m.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	}
}
