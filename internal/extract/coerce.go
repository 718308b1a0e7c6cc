package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tokmeter/tokmeter/internal/types"
)

// CoerceCount converts a loosely-typed stat field into a count.
// Accepts JSON integers and floats (directly or as json.Number) and
// strings of digits with optional thousands commas ("1,234,567").
// Anything else is unknown and yields nil.
func CoerceCount(v any) *int64 {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return types.Count(int64(n))
	case int64:
		return types.Count(n)
	case float64:
		return types.Count(int64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return types.Count(i)
		}
		if f, err := n.Float64(); err == nil {
			return types.Count(int64(f))
		}
		return nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return nil
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return nil
			}
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return types.Count(i)
	}
	return nil
}
