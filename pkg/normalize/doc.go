// Package normalize converts heterogeneous upstream plan documents into
// canonical RetailPlan records. A document that can't be normalized yields
// nil rather than an error: the caller logs it and moves on.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// lookup walks a dotted path through nested maps.
func lookup(doc map[string]any, path string) (any, bool) {
	cur := any(doc)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstString tries candidate paths in order and returns the first non-empty
// string value.
func firstString(doc map[string]any, paths ...string) (string, bool) {
	for _, p := range paths {
		if v, ok := lookup(doc, p); ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// firstNumber tries candidate paths in order and returns the first value that
// parses as a number. Upstream documents carry numbers as floats, ints,
// json.Number, and strings, depending on the shape.
func firstNumber(doc map[string]any, paths ...string) (float64, bool) {
	for _, p := range paths {
		if v, ok := lookup(doc, p); ok {
			if n, ok := asNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// firstMap tries candidate paths in order and returns the first map value.
func firstMap(doc map[string]any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		if v, ok := lookup(doc, p); ok {
			if m, ok := v.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// firstSlice tries candidate paths in order and returns the first non-empty
// slice value.
func firstSlice(doc map[string]any, paths ...string) ([]any, bool) {
	for _, p := range paths {
		if v, ok := lookup(doc, p); ok {
			if s, ok := v.([]any); ok && len(s) > 0 {
				return s, true
			}
		}
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
