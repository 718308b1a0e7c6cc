package discover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// stubFetcher serves canned responses by URL substring, in order of
// registration. Unmatched URLs get a 404.
type stubFetcher struct {
	routes []stubRoute
	calls  []string
}

type stubRoute struct {
	match  string
	status int
	body   string
}

func (s *stubFetcher) on(match string, status int, body string) {
	s.routes = append(s.routes, stubRoute{match: match, status: status, body: body})
}

func (s *stubFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	u := req.URLString()
	s.calls = append(s.calls, u)
	for _, r := range s.routes {
		if strings.Contains(u, r.match) {
			return &types.Response{
				Request:    req,
				StatusCode: r.status,
				Body:       []byte(r.body),
			}, nil
		}
	}
	return &types.Response{Request: req, StatusCode: 404, Body: nil}, nil
}

func (s *stubFetcher) Close() error { return nil }
func (s *stubFetcher) Type() string { return "stub" }

func testSite() *config.SiteConfig {
	site := config.DefaultConfig().Site
	return &site
}

func newTestDiscoverer(f *stubFetcher) *Discoverer {
	return New(f, testSite(), testLogger)
}

func scriptPage(id, payload string) string {
	return fmt.Sprintf(`<html><body><script id=%q type="application/json">%s</script></body></html>`, id, payload)
}

func TestVideoURL(t *testing.T) {
	d := newTestDiscoverer(&stubFetcher{})

	if got := d.videoURL("gopher", "123"); got != "https://www.tiktok.com/@gopher/video/123" {
		t.Errorf("videoURL = %q", got)
	}
	// Unknown author still produces a routable URL: the site redirects
	// to the canonical handle.
	if got := d.videoURL("", "123"); got != "https://www.tiktok.com/@user/video/123" {
		t.Errorf("videoURL fallback = %q", got)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("dedupe = %v", got)
	}
}

func TestTruncate(t *testing.T) {
	urls := []string{"a", "b", "c"}
	if got := truncate(urls, 2); len(got) != 2 {
		t.Errorf("truncate(2) = %v", got)
	}
	if got := truncate(urls, 10); len(got) != 3 {
		t.Errorf("truncate(10) = %v", got)
	}
	if got := truncate(urls, 0); len(got) != 3 {
		t.Errorf("truncate(0) = %v", got)
	}
}
