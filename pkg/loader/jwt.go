package loader

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonpeek/internal/jsontree"
)

func jwtParts(input string) []string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "Bearer ")
	return strings.Split(strings.TrimSpace(input), ".")
}

// IsJWT reports whether input is three dot-separated base64url parts whose
// first two decode to JSON objects. A "Bearer " prefix is ignored.
func IsJWT(input string) bool {
	parts := jwtParts(input)
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	for _, part := range parts[:2] {
		if _, err := decodeSegment(part); err != nil {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

// DecodeJWT returns an object with the decoded header and payload, in the
// order they were written, and the signature kept as its base64url text.
func DecodeJWT(input string) (jsontree.Node, error) {
	parts := jwtParts(input)
	if len(parts) != 3 {
		return jsontree.Node{}, fmt.Errorf("invalid JWT: expected 3 parts, got %d", len(parts))
	}
	header, err := decodeSegment(parts[0])
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("invalid JWT header: %w", err)
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return jsontree.Node{}, fmt.Errorf("invalid JWT payload: %w", err)
	}
	return jsontree.Object(
		jsontree.Member{Key: "header", Value: header},
		jsontree.Member{Key: "payload", Value: payload},
		jsontree.Member{Key: "signature", Value: jsontree.String(parts[2])},
	), nil
}

func decodeSegment(part string) (jsontree.Node, error) {
	raw, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return jsontree.Node{}, err
	}
	n, err := jsontree.Decode(raw)
	if err != nil {
		return jsontree.Node{}, err
	}
	if n.Kind() != jsontree.KindObject {
		return jsontree.Node{}, fmt.Errorf("segment is a JSON %s, not an object", n.Kind())
	}
	return n, nil
}
