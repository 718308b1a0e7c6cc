package extract

import (
	"encoding/json"
	"strconv"
)

// Dig walks nested JSON objects by key. Any missing or mistyped step
// yields nil, which indexes and re-digs safely.
func Dig(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		next, ok := m[key].(map[string]any)
		if !ok {
			return nil
		}
		m = next
	}
	return m
}

// DigSlice returns the array at the given path, or nil.
func DigSlice(m map[string]any, keys ...string) []any {
	if len(keys) == 0 {
		return nil
	}
	parent := Dig(m, keys[:len(keys)-1]...)
	s, _ := parent[keys[len(keys)-1]].([]any)
	return s
}

// AsString renders a loosely-typed scalar as a string. IDs are
// sometimes serialized as JSON numbers instead of strings.
func AsString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

// CreateTime reads an item's createTime as a Unix timestamp, 0 when
// absent or malformed.
func CreateTime(item map[string]any) int64 {
	if n := CoerceCount(item["createTime"]); n != nil {
		return *n
	}
	return 0
}
