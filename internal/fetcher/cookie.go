package fetcher

import (
	"fmt"
	"os"
	"strings"
)

// ResolveCookie picks the effective raw Cookie header value. An explicit
// value wins over a cookie file.
func ResolveCookie(cookie, cookieFile string) (string, error) {
	if cookie != "" {
		return normalizeCookie(cookie), nil
	}
	if cookieFile == "" {
		return "", nil
	}

	data, err := os.ReadFile(cookieFile)
	if err != nil {
		return "", fmt.Errorf("read cookie file: %w", err)
	}
	return normalizeCookie(string(data)), nil
}

// normalizeCookie trims whitespace and collapses newlines; cookie files
// are sometimes saved with a trailing newline or wrapped lines.
func normalizeCookie(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
