package extract

import (
	"reflect"
	"testing"
)

func TestHashtags(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    []string
	}{
		{"empty", "", []string{}},
		{"no tags", "just a caption", []string{}},
		{"single", "check this out #fyp", []string{"#fyp"}},
		{"multiple", "#one two #three", []string{"#one", "#three"}},
		{"dedupe case insensitive", "#Go #go #GO #golang", []string{"#Go", "#golang"}},
		{"first casing kept", "#FYP later #fyp", []string{"#FYP"}},
		{"underscores and digits", "#tag_1 #2024", []string{"#tag_1", "#2024"}},
		{"unicode letters", "#日本 #ありがとう #北京", []string{"#日本", "#ありがとう", "#北京"}},
		{"cyrillic", "#привет #Привет", []string{"#привет"}},
		{"punctuation ends tag", "#cook! #bake, #mix.", []string{"#cook", "#bake", "#mix"}},
		{"bare hash ignored", "# not a tag #real", []string{"#real"}},
		{"order preserved", "#z #a #m", []string{"#z", "#a", "#m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hashtags(tt.caption)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Hashtags(%q) = %v, want %v", tt.caption, got, tt.want)
			}
		})
	}
}

func TestHashtagsNeverNil(t *testing.T) {
	if Hashtags("") == nil {
		t.Error("empty caption should yield [], not nil")
	}
	if Hashtags("no tags here") == nil {
		t.Error("tagless caption should yield [], not nil")
	}
}
