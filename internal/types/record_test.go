package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestVideoRecordJSON(t *testing.T) {
	rec := &VideoRecord{
		URL:       "https://www.tiktok.com/@alice/video/7001",
		ID:        "7001",
		Author:    "alice",
		Caption:   "hi #go",
		Views:     Count(0),
		Hashtags:  []string{"#go"},
		FetchedAt: time.Now(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	// A known zero and an unknown count must be distinguishable.
	if !strings.Contains(s, `"views":0`) {
		t.Errorf("known zero views lost: %s", s)
	}
	if !strings.Contains(s, `"likes":null`) {
		t.Errorf("unknown likes should be null: %s", s)
	}
}

func TestToFlatMap(t *testing.T) {
	rec := &VideoRecord{
		URL:      "https://www.tiktok.com/@alice/video/7001",
		Author:   "alice",
		Views:    Count(123),
		Hashtags: []string{"#a", "#b"},
	}

	flat := rec.ToFlatMap()
	if flat["views"] != "123" {
		t.Errorf("views = %q", flat["views"])
	}
	if flat["likes"] != "" {
		t.Errorf("unknown likes = %q", flat["likes"])
	}
	if flat["hashtags"] != "#a #b" {
		t.Errorf("hashtags = %q", flat["hashtags"])
	}
}

func TestCountValue(t *testing.T) {
	if CountValue(nil) != 0 {
		t.Error("nil count should read as 0")
	}
	if CountValue(Count(42)) != 42 {
		t.Error("count round trip failed")
	}
}
