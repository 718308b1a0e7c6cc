package extract

import (
	"regexp"
	"strings"
)

// hashtagRE matches # followed by Unicode word characters.
var hashtagRE = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// Hashtags extracts #tags from a caption. Duplicates are dropped
// case-insensitively, order of first appearance and original casing
// are kept. The result is never nil so empty serializes as [].
func Hashtags(caption string) []string {
	tags := []string{}
	if caption == "" {
		return tags
	}

	seen := make(map[string]struct{})
	for _, tag := range hashtagRE.FindAllString(caption, -1) {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
