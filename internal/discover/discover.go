// Package discover implements best-effort discovery of video URLs:
// profile latest-video resolution, keyword search, the trending feed,
// and hashtag search. All of these guess at undocumented HTML and JSON
// shapes that can change at any time; callers must treat empty results
// as normal.
package discover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/fetcher"
	"github.com/tokmeter/tokmeter/internal/observability"
	"github.com/tokmeter/tokmeter/internal/types"
)

// Discoverer resolves video URLs from profile pages, search endpoints,
// and the trending feed.
type Discoverer struct {
	fetcher fetcher.Fetcher
	site    *config.SiteConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithMetrics attaches a metrics collector.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Discoverer) { d.metrics = m }
}

// New creates a Discoverer around the given fetcher and site endpoints.
func New(f fetcher.Fetcher, site *config.SiteConfig, logger *slog.Logger, opts ...Option) *Discoverer {
	d := &Discoverer{
		fetcher: f,
		site:    site,
		logger:  logger.With("component", "discover"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = observability.NewMetrics(logger)
	}
	return d
}

// fetch issues a GET for the given URL.
func (d *Discoverer) fetch(ctx context.Context, rawURL string) (*types.Response, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}
	resp, err := d.fetcher.Fetch(ctx, req)
	if err != nil {
		d.metrics.FetchErrors.Add(1)
		return nil, err
	}
	d.metrics.PagesFetched.Add(1)
	d.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
	return resp, nil
}

// videoURL builds the canonical video URL for an author handle and id.
func (d *Discoverer) videoURL(author, id string) string {
	if author == "" {
		author = "user"
	}
	return fmt.Sprintf("%s/@%s/video/%s", d.site.BaseURL, author, id)
}

// decodeJSON parses an API response body. Numbers decode as
// json.Number: item ids exceed float64 precision.
func decodeJSON(body []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, false
	}
	return data, true
}

// dedupe removes duplicate URLs, keeping order of first appearance.
func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}

// truncate caps a URL list at count.
func truncate(urls []string, count int) []string {
	if count > 0 && len(urls) > count {
		return urls[:count]
	}
	return urls
}
