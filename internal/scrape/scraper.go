// Package scrape ties fetching and extraction into the linear pipeline:
// fetch page, try each embedded state format, return a normalized
// record or fail.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tokmeter/tokmeter/internal/extract"
	"github.com/tokmeter/tokmeter/internal/fetcher"
	"github.com/tokmeter/tokmeter/internal/observability"
	"github.com/tokmeter/tokmeter/internal/types"
)

// Scraper fetches video pages and extracts metadata records.
type Scraper struct {
	fetcher   fetcher.Fetcher
	extractor *extract.Extractor
	metrics   *observability.Metrics
	logger    *slog.Logger
	saveHTML  string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMetrics attaches a metrics collector.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// WithSaveHTML dumps each fetched page body to the given path for
// debugging. Subsequent pages overwrite the file.
func WithSaveHTML(path string) Option {
	return func(s *Scraper) { s.saveHTML = path }
}

// New creates a Scraper around the given fetcher.
func New(f fetcher.Fetcher, logger *slog.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:   f,
		extractor: extract.NewExtractor(logger),
		logger:    logger.With("component", "scraper"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics(logger)
	}
	return s
}

// Metrics returns the scraper's metrics collector.
func (s *Scraper) Metrics() *observability.Metrics {
	return s.metrics
}

// Scrape fetches a single video page and extracts its metadata.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*types.VideoRecord, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}

	resp, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.metrics.FetchErrors.Add(1)
		return nil, err
	}
	s.metrics.PagesFetched.Add(1)
	s.metrics.BytesDownloaded.Add(int64(len(resp.Body)))

	if s.saveHTML != "" {
		if werr := os.WriteFile(s.saveHTML, resp.Body, 0o644); werr != nil {
			s.logger.Warn("failed to save page HTML", "path", s.saveHTML, "error", werr)
		}
	}

	if !resp.IsSuccess() {
		s.metrics.FetchErrors.Add(1)
		return nil, &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status; the page may be geo-blocked or require cookies"),
		}
	}

	rec, err := s.extractor.Extract(resp)
	if err != nil {
		s.metrics.ExtractErrors.Add(1)
		return nil, err
	}

	s.metrics.RecordsExtracted.Add(1)
	s.metrics.TotalViews.Add(types.CountValue(rec.Views))
	s.metrics.TotalLikes.Add(types.CountValue(rec.Likes))

	s.logger.Info("video scraped",
		"url", rawURL,
		"author", rec.Author,
		"views", types.CountValue(rec.Views),
		"likes", types.CountValue(rec.Likes),
		"hashtags", len(rec.Hashtags),
	)
	return rec, nil
}

// ScrapeAll processes URLs sequentially, one blocking fetch per item.
// Failures are logged and skipped; the successful records are returned.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []*types.VideoRecord {
	records := make([]*types.VideoRecord, 0, len(urls))

	for i, rawURL := range urls {
		if ctx.Err() != nil {
			s.logger.Warn("batch interrupted", "scraped", len(records), "remaining", len(urls)-i)
			break
		}

		s.logger.Info("scraping", "url", rawURL, "progress", fmt.Sprintf("%d/%d", i+1, len(urls)))

		rec, err := s.Scrape(ctx, rawURL)
		if err != nil {
			s.logger.Error("scrape failed", "url", rawURL, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records
}
