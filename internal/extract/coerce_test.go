package extract

import (
	"encoding/json"
	"testing"
)

func TestCoerceCount(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  int64
		known bool
	}{
		{"nil", nil, 0, false},
		{"int", 42, 42, true},
		{"int64", int64(7306131928117562668), 7306131928117562668, true},
		{"float", 1234.0, 1234, true},
		{"float truncates", 99.9, 99, true},
		{"json number int", json.Number("123456"), 123456, true},
		{"json number big", json.Number("7306131928117562668"), 7306131928117562668, true},
		{"json number float", json.Number("5.0"), 5, true},
		{"digit string", "8910", 8910, true},
		{"comma string", "1,234,567", 1234567, true},
		{"padded string", "  42 ", 42, true},
		{"zero string", "0", 0, true},
		{"empty string", "", 0, false},
		{"abbreviated", "1.2M", 0, false},
		{"negative string", "-5", 0, false},
		{"word", "unknown", 0, false},
		{"bool", true, 0, false},
		{"object", map[string]any{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceCount(tt.in)
			if tt.known {
				if got == nil {
					t.Fatalf("CoerceCount(%v) = nil, want %d", tt.in, tt.want)
				}
				if *got != tt.want {
					t.Errorf("CoerceCount(%v) = %d, want %d", tt.in, *got, tt.want)
				}
				return
			}
			if got != nil {
				t.Errorf("CoerceCount(%v) = %d, want unknown", tt.in, *got)
			}
		})
	}
}
