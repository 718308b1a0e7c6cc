package extract

import (
	"encoding/json"
	"testing"
)

func TestDig(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": "leaf",
				"list": []any{
					"x", "y",
				},
			},
		},
	}

	if got := Dig(data, "a", "b"); got["c"] != "leaf" {
		t.Errorf("Dig(a, b) = %v", got)
	}
	if got := Dig(data, "a", "missing", "b"); got != nil {
		t.Errorf("missing path should be nil, got %v", got)
	}
	// Indexing a nil map is safe and re-digging stays nil.
	if got := Dig(nil, "a")["c"]; got != nil {
		t.Errorf("dig on nil = %v", got)
	}
	if got := DigSlice(data, "a", "b", "list"); len(got) != 2 {
		t.Errorf("DigSlice = %v", got)
	}
	if got := DigSlice(data, "a", "b", "c"); got != nil {
		t.Errorf("DigSlice on scalar = %v", got)
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"abc", "abc"},
		{json.Number("7306131928117562668"), "7306131928117562668"},
		{float64(42), "42"},
		{nil, ""},
		{true, ""},
		{[]any{}, ""},
	}
	for _, tt := range tests {
		if got := AsString(tt.in); got != tt.want {
			t.Errorf("AsString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateTime(t *testing.T) {
	if got := CreateTime(map[string]any{"createTime": json.Number("1700000000")}); got != 1700000000 {
		t.Errorf("createTime = %d", got)
	}
	if got := CreateTime(map[string]any{"createTime": "1650000000"}); got != 1650000000 {
		t.Errorf("string createTime = %d", got)
	}
	if got := CreateTime(map[string]any{}); got != 0 {
		t.Errorf("absent createTime = %d", got)
	}
}
