package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	switch cfg.Fetcher.Type {
	case "http", "browser":
	default:
		return fmt.Errorf("fetcher.type must be \"http\" or \"browser\", got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0, got %s", cfg.Fetcher.RequestTimeout)
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0, got %d", cfg.Fetcher.MaxRedirects)
	}
	if cfg.Fetcher.MaxBodySize < 0 {
		return fmt.Errorf("fetcher.max_body_size must be >= 0, got %d", cfg.Fetcher.MaxBodySize)
	}
	if cfg.Fetcher.ProxyURL != "" {
		if _, err := url.Parse(cfg.Fetcher.ProxyURL); err != nil {
			return fmt.Errorf("fetcher.proxy_url: %w", err)
		}
	}

	if err := validateBaseURL("site.base_url", cfg.Site.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("site.mobile_base_url", cfg.Site.MobileBaseURL); err != nil {
		return err
	}

	if cfg.Discovery.Count < 1 {
		return fmt.Errorf("discovery.count must be >= 1, got %d", cfg.Discovery.Count)
	}

	switch cfg.Storage.Type {
	case "stdout", "json", "jsonl", "csv":
	default:
		return fmt.Errorf("storage.type must be one of stdout, json, jsonl, csv; got %q", cfg.Storage.Type)
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be in [1, 65535], got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks that a user-supplied URL is absolute http(s).
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func validateBaseURL(field, rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if err := ValidateURL(rawURL); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if strings.HasSuffix(rawURL, "/") {
		return fmt.Errorf("%s must not end with a slash, got %q", field, rawURL)
	}
	return nil
}
