package jsontree

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, text string) Node {
	t.Helper()
	n, err := Decode([]byte(text))
	require.NoError(t, err)
	return n
}

func rowTexts(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text()
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"float", 1.5, KindNumber},
		{"int", 7, KindNumber},
		{"json number", json.Number("12"), KindNumber},
		{"string", "hi", KindString},
		{"empty array", []any{}, KindArray},
		{"array", []any{1.0, "x"}, KindArray},
		{"typed slice", []string{"a"}, KindArray},
		{"empty object", map[string]any{}, KindObject},
		{"typed map", map[string]int{"a": 1}, KindObject},
		{"nil map", map[string]any(nil), KindObject},
		{"nil typed map", map[string]int(nil), KindObject},
		{"nil slice", []any(nil), KindArray},
		{"nil typed slice", []string(nil), KindArray},
		{"nil byte slice", []byte(nil), KindArray},
		{"nil pointer", (*int)(nil), KindNull},
		{"channel", make(chan int), KindOther},
		{"complex", complex(1, 2), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input)
			assert.Equal(t, tt.want, got.Kind())
			// classification is stable
			assert.Equal(t, got, Classify(tt.input))
			if got.IsContainer() && reflect.ValueOf(tt.input).Len() == 0 {
				assert.Equal(t, 0, got.Len())
			}
			assert.Equal(t, got, Classify(got))
		})
	}
}

func TestClassifyFromEncodingJSON(t *testing.T) {
	var v any
	require.NoError(t, json.Unmarshal([]byte(`{"b":[1,true,null],"a":"x"}`), &v))
	n := Classify(v)
	require.Equal(t, KindObject, n.Kind())
	// unordered maps are sorted for stability
	assert.Equal(t, []Key{NameKey("a"), NameKey("b")}, n.ChildKeys())
	b, ok := n.Child(NameKey("b"))
	require.True(t, ok)
	assert.Equal(t, []Kind{KindNumber, KindBool, KindNull}, []Kind{b.Items()[0].Kind(), b.Items()[1].Kind(), b.Items()[2].Kind()})
}

func TestDecodeKeepsMemberOrder(t *testing.T) {
	n := mustDecode(t, `{"z":1,"a":2,"m":{"y":true,"b":null}}`)
	assert.Equal(t, []Key{NameKey("z"), NameKey("a"), NameKey("m")}, n.ChildKeys())
	m, _ := n.Child(NameKey("m"))
	assert.Equal(t, []Key{NameKey("y"), NameKey("b")}, m.ChildKeys())
}

func TestDecodeDuplicateKeysLastWinsAtFirstPosition(t *testing.T) {
	n := mustDecode(t, `{"a":1,"b":2,"a":3}`)
	require.Len(t, n.Members(), 2)
	assert.Equal(t, "a", n.Members()[0].Key)
	assert.Equal(t, "3", FormatNumber(n.Members()[0].Value.NumberValue()))
}

func TestDecodeOverflowingNumberKeepsLiteral(t *testing.T) {
	n := mustDecode(t, `[1e400, -1e400]`)
	first := n.Items()[0].NumberValue()
	assert.True(t, first.Overflow)
	assert.Equal(t, "1e400", FormatNumber(first))
	assert.Equal(t, "-1e400", FormatNumber(n.Items()[1].NumberValue()))
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"unterminated object", `{invalid`},
		{"bare word", `hello`},
		{"trailing comma", `[1,2,]`},
		{"trailing data", `{} {}`},
		{"trailing garbage", `[1]x`},
		{"single quotes", `{'a':1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			var de *DecodeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestDecodeDepthGuard(t *testing.T) {
	deep := strings.Repeat("[", 10) + strings.Repeat("]", 10)

	_, err := Decode([]byte(deep), WithMaxDepth(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooDeep)

	n, err := Decode([]byte(deep), WithMaxDepth(10))
	require.NoError(t, err)
	assert.Equal(t, KindArray, n.Kind())
}

func TestToggleSelfInverse(t *testing.T) {
	states := []State{
		{},
		{NameKey("a"): true},
		{NameKey("a"): true, IndexKey(2): true},
	}
	keys := []Key{NameKey("a"), NameKey("b"), IndexKey(2), IndexKey(0)}
	for _, s := range states {
		for _, k := range keys {
			once := Toggle(s, k)
			assert.NotEqual(t, s.Expanded(k), once.Expanded(k))
			assert.Equal(t, s, Toggle(once, k), "toggle twice on %v", k)
		}
	}
}

func TestToggleCommutes(t *testing.T) {
	s := State{NameKey("a"): true}
	a, b := NameKey("a"), IndexKey(1)
	assert.Equal(t, Toggle(Toggle(s, a), b), Toggle(Toggle(s, b), a))

	c := NameKey("c")
	assert.True(t, Toggle(Toggle(s, b), c).Equal(Toggle(Toggle(s, c), b)))
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	s := State{}
	_ = Toggle(s, NameKey("x"))
	assert.Empty(t, s)
}

func TestExpansionCollapseDropsNestedState(t *testing.T) {
	e := NewExpansion()
	x := NameKey("x")
	require.True(t, e.Toggle(x))
	e.Child(x).Toggle(NameKey("y"))
	require.True(t, e.Child(x).Expanded(NameKey("y")))

	require.False(t, e.Toggle(x))
	assert.Nil(t, e.Child(x))

	require.True(t, e.Toggle(x))
	assert.False(t, e.Child(x).Expanded(NameKey("y")), "re-expanded child starts collapsed")
}

func TestRenderEmptyContainers(t *testing.T) {
	for text, want := range map[string]string{`[]`: EmptyArrayText, `{}`: EmptyObjectText} {
		doc := Load(text)
		v := doc.View()
		assert.False(t, v.Failed)
		assert.Equal(t, want, v.RootValue)
		assert.Empty(t, v.Rows)
	}

	doc := Load(`{"a":[],"b":{}}`)
	rows := doc.Rows()
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.Expandable())
		assert.Empty(t, r.Summary)
	}
	assert.Equal(t, EmptyArrayText, rows[0].Value)
	assert.Equal(t, EmptyObjectText, rows[1].Value)
}

func TestRenderCollapsedSummary(t *testing.T) {
	doc := Load(`{"a": 1, "b": [1,2,3]}`)
	rows := doc.Rows()
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].Key.Label())
	assert.Equal(t, "1", rows[0].Value)
	assert.False(t, rows[0].Expandable())

	assert.Equal(t, "b", rows[1].Key.Label())
	assert.Equal(t, "Array[3]", rows[1].Summary)
	assert.Equal(t, AffordanceCollapsed, rows[1].Affordance)
}

func TestRenderExpandedChild(t *testing.T) {
	doc := Load(`{"a": 1, "b": [1,2,3]}`)
	require.True(t, doc.Toggle([]Key{NameKey("b")}))

	rows := doc.Rows()
	require.Len(t, rows, 5)
	assert.Equal(t, AffordanceExpanded, rows[1].Affordance)
	for i, want := range []string{"[0]", "[1]", "[2]"} {
		r := rows[2+i]
		assert.Equal(t, 1, r.Depth)
		assert.Equal(t, want, r.Key.Label())
		assert.Equal(t, FormatNumber(Number{Value: float64(i + 1)}), r.Value)
	}
	assert.Equal(t, []string{
		"  a: 1",
		"▾ b: Array[3]",
		"    [0]: 1",
		"    [1]: 2",
		"    [2]: 3",
	}, rowTexts(rows))
}

func TestRenderNestedGatedOnOwnFlag(t *testing.T) {
	doc := Load(`{"x": {"y": {"z": 1}}}`)
	require.True(t, doc.Toggle([]Key{NameKey("x")}))

	rows := doc.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, AffordanceExpanded, rows[0].Affordance)
	assert.Equal(t, "y", rows[1].Key.Label())
	assert.Equal(t, "Object{}", rows[1].Summary)
	assert.Equal(t, 1, rows[1].Node.Len())
	for _, r := range rows {
		assert.NotEqual(t, "z", r.Key.Label())
	}

	require.True(t, doc.Toggle([]Key{NameKey("x"), NameKey("y")}))
	assert.Len(t, doc.Rows(), 3)

	// collapsing x discards y's state
	require.True(t, doc.Toggle([]Key{NameKey("x")}))
	require.True(t, doc.Toggle([]Key{NameKey("x")}))
	assert.Len(t, doc.Rows(), 2)
}

func TestToggleRejectsUnaddressablePaths(t *testing.T) {
	doc := Load(`{"a": 1, "x": {"y": {"z": 1}}}`)
	assert.False(t, doc.Toggle(nil))
	assert.False(t, doc.Toggle([]Key{NameKey("a")}), "leaf")
	assert.False(t, doc.Toggle([]Key{NameKey("missing")}))
	assert.False(t, doc.Toggle([]Key{NameKey("x"), NameKey("y")}), "x is collapsed")
	assert.Equal(t, 0, doc.Expansion().Count())
}

func TestRenderLeaves(t *testing.T) {
	doc := Load(`["s", 2.5, true, false, null, 1e21, 0.0000001, -0]`)
	rows := doc.Rows()
	require.Len(t, rows, 8)
	assert.Equal(t, `"s"`, rows[0].Value)
	assert.Equal(t, "2.5", rows[1].Value)
	assert.Equal(t, "true", rows[2].Value)
	assert.Equal(t, TrueGlyph, rows[2].Glyph)
	assert.Equal(t, "false", rows[3].Value)
	assert.Equal(t, FalseGlyph, rows[3].Glyph)
	assert.NotEqual(t, rows[2].Glyph, rows[3].Glyph)
	assert.Equal(t, "null", rows[4].Value)
	assert.Equal(t, "1e+21", rows[5].Value)
	assert.Equal(t, "1e-7", rows[6].Value)
	assert.Equal(t, "0", rows[7].Value)
}

func TestHeader(t *testing.T) {
	tests := map[string]string{
		`[1,2]`:   "array of 2 elements",
		`[]`:      "array of 0 elements",
		`{"a":1}`: "object",
		`{}`:      "object",
		`"x"`:     "value of kind string",
		`3`:       "value of kind number",
		`true`:    "value of kind boolean",
		`null`:    "value of kind null",
	}
	for input, want := range tests {
		assert.Equal(t, want, Load(input).View().Header, input)
	}
	assert.Equal(t, "value of kind other", Header(Other("x")))
}

func TestMalformedInputFallsBackToRawText(t *testing.T) {
	doc := Load("{invalid")
	require.False(t, doc.OK())
	v := doc.View()
	assert.True(t, v.Failed)
	assert.Equal(t, ErrorCaption, v.Caption)
	assert.Equal(t, "{invalid", v.Raw)
	assert.Empty(t, v.Rows)
	assert.Empty(t, v.Header)
	assert.Nil(t, doc.Expansion())
	assert.False(t, doc.Toggle([]Key{NameKey("invalid")}))
}

func TestExpandAndCollapseAll(t *testing.T) {
	doc := Load(`{"a":{"b":[{"c":1}]},"d":[]}`)
	doc.ExpandAll()
	texts := rowTexts(doc.Rows())
	assert.Equal(t, []string{
		"▾ a: Object{}",
		"  ▾ b: Array[1]",
		"    ▾ [0]: Object{}",
		"        c: 1",
		"  d: [ ]",
	}, texts)

	doc.CollapseAll()
	assert.Len(t, doc.Rows(), 2)
}

func TestExpandPath(t *testing.T) {
	doc := Load(`{"items":[{"name":"x","tags":["a"]}]}`)
	path, err := ParsePath("items.0.tags")
	require.NoError(t, err)
	require.True(t, doc.Expand(path))
	assert.Len(t, doc.Rows(), 5)

	bad, err := ParsePath("items[0].name")
	require.NoError(t, err)
	assert.False(t, doc.Expand(bad), "leaf is not expandable")
}

func TestParseAndFormatPath(t *testing.T) {
	tests := []struct {
		in   string
		want []Key
		out  string
	}{
		{"", nil, ""},
		{"a", []Key{NameKey("a")}, "a"},
		{"a.b[2]", []Key{NameKey("a"), NameKey("b"), IndexKey(2)}, "a.b[2]"},
		{`meta["dotted.key"].x`, []Key{NameKey("meta"), NameKey("dotted.key"), NameKey("x")}, `meta["dotted.key"].x`},
		{"[0][1]", []Key{IndexKey(0), IndexKey(1)}, "[0][1]"},
		{`["a\"]b"]`, []Key{NameKey(`a"]b`)}, `["a\"]b"]`},
		{`x["c:\\dir"][3]`, []Key{NameKey("x"), NameKey(`c:\dir`), IndexKey(3)}, `x["c:\\dir"][3]`},
		{`["[0]"]`, []Key{NameKey("[0]")}, `["[0]"]`},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.out, FormatPath(got))
	}

	_, err := ParsePath("a[1")
	assert.Error(t, err)
	_, err = ParsePath("a[x]")
	assert.Error(t, err)
	_, err = ParsePath(`a["b"x]`)
	assert.Error(t, err)
	_, err = ParsePath(`a["b\"]`)
	assert.Error(t, err)

	for _, keys := range [][]Key{
		{NameKey(`q"]`), NameKey(`\`), NameKey(`"`)},
		{NameKey("sp ace"), IndexKey(0), NameKey(""), NameKey("a.b")},
	} {
		got, err := ParsePath(FormatPath(keys))
		require.NoError(t, err)
		assert.Equal(t, keys, got)
	}
}

func TestNodeAt(t *testing.T) {
	doc := Load(`{"a":{"b":[10,20]}}`)
	n, ok := doc.NodeAt([]Key{NameKey("a"), NameKey("b"), IndexKey(1)})
	require.True(t, ok)
	assert.Equal(t, "20", FormatNumber(n.NumberValue()))
	_, ok = doc.NodeAt([]Key{NameKey("nope")})
	assert.False(t, ok)
}

func TestInterfaceRoundTrip(t *testing.T) {
	n := mustDecode(t, `{"a":[1,"x",true,null],"b":{}}`)
	assert.Equal(t, map[string]any{
		"a": []any{1.0, "x", true, nil},
		"b": map[string]any{},
	}, n.Interface())
}

func TestControlCharactersStayOnOneRow(t *testing.T) {
	doc := Load(`{"a":"l1\nl2\r\tx","b\nc":1,"c":"\u001b[2J","d":"café  "}`)
	rows := doc.Rows()
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.NotContains(t, r.Text(), "\n")
		assert.NotContains(t, r.Text(), "\x1b")
	}
	assert.Equal(t, `"l1\nl2\r\tx"`, rows[0].Value)
	assert.Equal(t, `b\nc`, rows[1].Key.Label())
	assert.Equal(t, `"\u001b[2J"`, rows[2].Value)
	assert.Equal(t, `"café  "`, rows[3].Value)

	// the node keeps the original text
	n, ok := doc.NodeAt([]Key{NameKey("a")})
	require.True(t, ok)
	assert.Equal(t, "l1\nl2\r\tx", n.StringValue())
}

func TestEscapeControlLines(t *testing.T) {
	assert.Equal(t, "plain", EscapeControl("plain"))
	assert.Equal(t, `\u007f`, EscapeControl("\x7f"))
	assert.Equal(t, "{\n    \"a\": \\u001b]0;x\\u0007\n}", EscapeControlLines("{\r\n\t\"a\": \x1b]0;x\x07\r\n}"))
}
