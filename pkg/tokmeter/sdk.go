// Package tokmeter provides a public SDK for embedding TokMeter as a
// library.
//
// Example usage:
//
//	client, err := tokmeter.NewClient(
//	    tokmeter.WithCookie("sessionid=..."),
//	    tokmeter.WithTimeout(20*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	rec, err := client.Scrape(ctx, "https://www.tiktok.com/@user/video/7123456789012345678")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rec.Caption, tokmeter.CountValue(rec.Views))
package tokmeter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/discover"
	"github.com/tokmeter/tokmeter/internal/fetcher"
	"github.com/tokmeter/tokmeter/internal/observability"
	"github.com/tokmeter/tokmeter/internal/scrape"
	"github.com/tokmeter/tokmeter/internal/types"
)

// VideoRecord is the normalized metadata for one video.
type VideoRecord = types.VideoRecord

// CountValue unwraps an optional count; unknown counts read as 0.
func CountValue(n *int64) int64 {
	return types.CountValue(n)
}

// Client is the high-level API for using TokMeter as a library.
type Client struct {
	cfg        *config.Config
	fetcher    fetcher.Fetcher
	scraper    *scrape.Scraper
	discoverer *discover.Discoverer
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config.Config)

// WithCookie sets a raw Cookie header value sent with every request.
func WithCookie(cookie string) Option {
	return func(c *config.Config) { c.Fetcher.Cookie = cookie }
}

// WithCookieFile loads the raw Cookie header value from a file.
func WithCookieFile(path string) Option {
	return func(c *config.Config) { c.Fetcher.CookieFile = path }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) { c.Fetcher.RequestTimeout = d }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config.Config) { c.Fetcher.UserAgents = []string{ua} }
}

// WithProxy routes all requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(c *config.Config) { c.Fetcher.ProxyURL = proxyURL }
}

// WithBrowser fetches pages through a headless browser instead of plain
// HTTP. Slower, but survives pages that only hydrate client-side.
func WithBrowser() Option {
	return func(c *config.Config) { c.Fetcher.Type = "browser" }
}

// WithBaseURL overrides the site base URL, mainly for testing.
func WithBaseURL(baseURL string) Option {
	return func(c *config.Config) {
		c.Site.BaseURL = baseURL
		c.Site.MobileBaseURL = baseURL
		c.Site.Referer = baseURL + "/"
	}
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// NewClient creates a new Client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cookie, err := fetcher.ResolveCookie(cfg.Fetcher.Cookie, cfg.Fetcher.CookieFile)
	if err != nil {
		return nil, err
	}

	var f fetcher.Fetcher
	if cfg.Fetcher.Type == "browser" {
		f, err = fetcher.NewBrowserFetcher(cfg, logger)
	} else {
		f, err = fetcher.NewHTTPFetcher(cfg, cookie, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	metrics := observability.NewMetrics(logger)

	return &Client{
		cfg:        cfg,
		fetcher:    f,
		scraper:    scrape.New(f, logger, scrape.WithMetrics(metrics)),
		discoverer: discover.New(f, &cfg.Site, logger, discover.WithMetrics(metrics)),
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Scrape fetches one video page and extracts its metadata record.
func (c *Client) Scrape(ctx context.Context, url string) (*VideoRecord, error) {
	return c.scraper.Scrape(ctx, url)
}

// ScrapeAll scrapes URLs sequentially, returning the successful records.
func (c *Client) ScrapeAll(ctx context.Context, urls []string) []*VideoRecord {
	return c.scraper.ScrapeAll(ctx, urls)
}

// Latest resolves and scrapes the most recent video on a profile.
func (c *Client) Latest(ctx context.Context, username string) (*VideoRecord, error) {
	u, err := c.discoverer.ResolveLatest(ctx, username)
	if err != nil {
		return nil, err
	}
	return c.scraper.Scrape(ctx, u)
}

// Search finds up to count video URLs matching a keyword.
func (c *Client) Search(ctx context.Context, keyword string, count int) ([]string, error) {
	return c.discoverer.Search(ctx, keyword, count)
}

// SearchHashtag finds up to count video URLs for a hashtag.
func (c *Client) SearchHashtag(ctx context.Context, tag string, count int) ([]string, error) {
	return c.discoverer.SearchHashtag(ctx, tag, count)
}

// Trending finds up to count video URLs from the trending feed.
func (c *Client) Trending(ctx context.Context, count int) ([]string, error) {
	return c.discoverer.Trending(ctx, count)
}

// Stats returns operational counters collected so far.
func (c *Client) Stats() map[string]int64 {
	return c.metrics.Snapshot()
}

// Close releases the underlying fetcher's resources.
func (c *Client) Close() error {
	return c.fetcher.Close()
}
