package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// It exists for pages that only hydrate their embedded state client-side;
// the plain HTTP fetcher is the default.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	logger  *slog.Logger

	// One page, reused serially. Scraping is sequential by design.
	mu   sync.Mutex
	page *rod.Page
}

// NewBrowserFetcher launches a headless Chromium and connects to it.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) (*BrowserFetcher, error) {
	launchURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf := &BrowserFetcher{
		browser: browser,
		cfg:     &cfg.Fetcher,
		logger:  logger.With("component", "browser_fetcher"),
	}

	bf.logger.Info("browser fetcher ready")
	return bf, nil
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	start := time.Now()

	page, err := bf.getPage()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	if ua := req.Headers.Get("User-Agent"); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	timeout := bf.cfg.RequestTimeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	if err := page.Timeout(timeout).Navigate(req.URLString()); err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		bf.logger.Warn("page stability timeout, continuing", "url", req.URLString(), "error", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	finalURL := req.URLString()
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	// Rod does not easily expose the navigation status code; a rendered
	// document is treated as success.
	duration := time.Since(start)
	resp := types.NewBrowserResponse(req, 200, []byte(html), finalURL, duration)

	bf.logger.Debug("browser fetch complete",
		"url", req.URLString(),
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return resp, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.page != nil {
		_ = bf.page.Close()
		bf.page = nil
	}
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}

// getPage returns the reusable page, creating it on first use.
func (bf *BrowserFetcher) getPage() (*rod.Page, error) {
	if bf.page != nil {
		return bf.page, nil
	}
	page, err := bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	bf.page = page
	return page, nil
}
