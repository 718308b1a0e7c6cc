package types

import (
	"strconv"
	"strings"
	"time"
)

// VideoRecord is the normalized result of scraping a single video page.
// Count fields are pointers so that "the page did not expose this number"
// survives serialization as JSON null rather than a misleading zero.
type VideoRecord struct {
	// URL is the page the record was extracted from.
	URL string `json:"url"`

	// ID is the video's numeric identifier, as a string.
	ID string `json:"id,omitempty"`

	// Author is the creator's unique handle, without the @ prefix.
	Author string `json:"author,omitempty"`

	// Caption is the video description text.
	Caption string `json:"caption"`

	Views    *int64 `json:"views"`
	Likes    *int64 `json:"likes"`
	Shares   *int64 `json:"shares"`
	Comments *int64 `json:"comments"`

	// Hashtags are the #tags found in the caption, original casing,
	// de-duplicated case-insensitively in order of first appearance.
	Hashtags []string `json:"hashtags"`

	// Format identifies which embedded state blob the record came from.
	Format string `json:"format,omitempty"`

	// FetchedAt is when the page was scraped.
	FetchedAt time.Time `json:"fetched_at"`
}

// Count wraps an int64 as a known count value.
func Count(n int64) *int64 {
	return &n
}

// CountValue returns the count or 0 when unknown.
func CountValue(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

// ToFlatMap returns a flat string map suitable for CSV export.
func (r *VideoRecord) ToFlatMap() map[string]string {
	return map[string]string{
		"url":        r.URL,
		"id":         r.ID,
		"author":     r.Author,
		"caption":    r.Caption,
		"views":      formatCount(r.Views),
		"likes":      formatCount(r.Likes),
		"shares":     formatCount(r.Shares),
		"comments":   formatCount(r.Comments),
		"hashtags":   strings.Join(r.Hashtags, " "),
		"format":     r.Format,
		"fetched_at": r.FetchedAt.Format(time.RFC3339),
	}
}

// formatCount renders a count for CSV; unknown values become empty cells.
func formatCount(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
