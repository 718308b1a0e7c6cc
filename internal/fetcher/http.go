package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/types"
)

// HTTPFetcher implements Fetcher using net/http.
type HTTPFetcher struct {
	client     *http.Client
	cfg        *config.FetcherConfig
	logger     *slog.Logger
	userAgents []string
	cookie     string
	referer    string
	uaIndex    atomic.Int64
}

// NewHTTPFetcher creates a new HTTP fetcher. The cookie argument is a raw
// Cookie header value sent with every request; empty means none.
func NewHTTPFetcher(cfg *config.Config, cookie string, logger *slog.Logger) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.Fetcher.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Fetcher.MaxIdleConns / 2,
		IdleConnTimeout:     cfg.Fetcher.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.Fetcher.TLSInsecure,
		},
		DisableCompression: true, // We handle decompression ourselves (including brotli)
	}

	if cfg.Fetcher.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.Fetcher.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !cfg.Fetcher.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= cfg.Fetcher.MaxRedirects {
			return fmt.Errorf("max redirects (%d) reached", cfg.Fetcher.MaxRedirects)
		}
		return nil
	}

	client := &http.Client{
		Transport:     transport,
		Jar:           jar,
		Timeout:       cfg.Fetcher.RequestTimeout,
		CheckRedirect: redirectPolicy,
	}

	return &HTTPFetcher{
		client:     client,
		cfg:        &cfg.Fetcher,
		logger:     logger.With("component", "http_fetcher"),
		userAgents: cfg.Fetcher.UserAgents,
		cookie:     cookie,
		referer:    cfg.Site.Referer,
	}, nil
}

// Fetch executes an HTTP request and returns the response. Non-2xx
// statuses are returned as responses, not errors: discovery helpers try
// further URL variants on a blocked status.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URLString(), nil)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	// Desktop browser headers: only the desktop HTML carries the
	// embedded JSON state.
	httpReq.Header.Set("User-Agent", f.nextUserAgent())
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	httpReq.Header.Set("Accept-Encoding", "gzip, deflate, br")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("Pragma", "no-cache")
	httpReq.Header.Set("Upgrade-Insecure-Requests", "1")
	if f.referer != "" {
		httpReq.Header.Set("Referer", f.referer)
	}
	if f.cookie != "" {
		httpReq.Header.Set("Cookie", f.cookie)
	}

	// Apply custom headers from the request last so they win.
	for key, values := range req.Headers {
		for _, v := range values {
			httpReq.Header.Set(key, v)
		}
	}

	start := time.Now()
	httpResp, err := f.client.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}
	defer httpResp.Body.Close()

	var reader io.Reader = httpResp.Body
	if f.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, f.cfg.MaxBodySize)
	}

	reader, err = decompressReader(httpResp, reader)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), StatusCode: httpResp.StatusCode, Err: err}
	}

	resp := types.NewResponse(req, httpResp, body, duration)

	f.logger.Debug("fetch complete",
		"url", req.URLString(),
		"status", resp.StatusCode,
		"size", len(body),
		"duration", duration,
	)

	return resp, nil
}

// Close releases resources.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// Type returns the fetcher type identifier.
func (f *HTTPFetcher) Type() string {
	return "http"
}

// nextUserAgent returns the next User-Agent in rotation.
func (f *HTTPFetcher) nextUserAgent() string {
	if len(f.userAgents) == 0 {
		return "TokMeter/" + config.Version
	}
	idx := f.uaIndex.Add(1) % int64(len(f.userAgents))
	return f.userAgents[idx]
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
