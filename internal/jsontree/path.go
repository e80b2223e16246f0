package jsontree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ParsePath parses a path such as regions.asia.countries[0]["postal-code"]
// into child keys. Dots separate member names, [n] addresses an element and
// ["name"] quotes a member name containing dots or brackets, with \" and \\
// escaping a quote or backslash inside it. An empty input is the root (no
// keys).
func ParsePath(input string) ([]Key, error) {
	var keys []Key
	i := 0
	for i < len(input) {
		ch := input[i]
		if ch == '.' {
			i++
			continue
		}
		if ch == '[' {
			if strings.HasPrefix(input[i+1:], `"`) {
				name, n, err := parseQuoted(input[i+1:])
				if err != nil {
					return nil, fmt.Errorf("%w at offset %d in path %q", err, i, input)
				}
				keys = append(keys, NameKey(name))
				i += 1 + n
				continue
			}
			end := strings.IndexByte(input[i:], ']')
			if end == -1 {
				return nil, fmt.Errorf("unterminated bracket at offset %d in path %q", i, input)
			}
			segment := input[i+1 : i+end]
			n, err := strconv.Atoi(segment)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid index %q in path %q", segment, input)
			}
			keys = append(keys, IndexKey(n))
			i += end + 1
			continue
		}
		j := i
		for j < len(input) && input[j] != '.' && input[j] != '[' {
			j++
		}
		keys = append(keys, NameKey(input[i:j]))
		i = j
	}
	return keys, nil
}

// parseQuoted reads a "name"] segment where \" and \\ are escapes. It
// returns the unescaped name and the number of bytes consumed.
func parseQuoted(s string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, errors.New("unterminated bracket")
			}
			i++
			b.WriteByte(s[i])
		case '"':
			if i+1 >= len(s) || s[i+1] != ']' {
				return "", 0, errors.New("expected ] after quoted name")
			}
			return b.String(), i + 2, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, errors.New("unterminated bracket")
}

var nameEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

var plainName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$-]*$`)

// FormatPath is the inverse of ParsePath.
func FormatPath(keys []Key) string {
	var b strings.Builder
	for idx, k := range keys {
		switch {
		case k.IsIndex():
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(k.Index))
			b.WriteByte(']')
		case plainName.MatchString(k.Name):
			if idx > 0 {
				b.WriteByte('.')
			}
			b.WriteString(k.Name)
		default:
			b.WriteString(`["`)
			b.WriteString(nameEscaper.Replace(k.Name))
			b.WriteString(`"]`)
		}
	}
	return b.String()
}

// resolveKey adapts a parsed key to the container it is applied to: a
// numeric member name addresses an element when the container is an array
// (so "items.0" and "items[0]" are the same path).
func resolveKey(container Node, k Key) Key {
	if container.Kind() == KindArray && !k.IsIndex() {
		if n, err := strconv.Atoi(k.Name); err == nil && n >= 0 {
			return IndexKey(n)
		}
	}
	return k
}
