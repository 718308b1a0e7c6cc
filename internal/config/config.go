package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for TokMeter.
type Config struct {
	Fetcher   FetcherConfig   `mapstructure:"fetcher"   yaml:"fetcher"`
	Site      SiteConfig      `mapstructure:"site"      yaml:"site"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   yaml:"metrics"`
}

// FetcherConfig controls how pages are fetched.
type FetcherConfig struct {
	// Type selects the fetcher: "http" or "browser".
	Type            string        `mapstructure:"type"              yaml:"type"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`

	// UserAgents are rotated across requests. Desktop browser agents
	// matter here: only the desktop HTML carries the embedded JSON.
	UserAgents []string `mapstructure:"user_agents" yaml:"user_agents"`

	// ProxyURL routes all requests through a single proxy when set.
	ProxyURL string `mapstructure:"proxy_url" yaml:"proxy_url"`

	// Cookie is a raw Cookie header value (e.g. "sessionid=...").
	// Some regions geo-block anonymous requests.
	Cookie string `mapstructure:"cookie" yaml:"cookie"`

	// CookieFile is a path to a file holding the raw Cookie header.
	CookieFile string `mapstructure:"cookie_file" yaml:"cookie_file"`
}

// SiteConfig holds the endpoints of the target site. These mirror
// undocumented web surfaces and can change at any time.
type SiteConfig struct {
	BaseURL       string `mapstructure:"base_url"        yaml:"base_url"`
	MobileBaseURL string `mapstructure:"mobile_base_url" yaml:"mobile_base_url"`
	Referer       string `mapstructure:"referer"         yaml:"referer"`

	SearchEndpoint     string `mapstructure:"search_endpoint"      yaml:"search_endpoint"`
	UserDetailEndpoint string `mapstructure:"user_detail_endpoint" yaml:"user_detail_endpoint"`
	ItemListEndpoint   string `mapstructure:"item_list_endpoint"   yaml:"item_list_endpoint"`
}

// DiscoveryConfig controls the discovery helpers.
type DiscoveryConfig struct {
	// Count is the default number of video URLs a discovery command
	// tries to collect.
	Count int `mapstructure:"count" yaml:"count"`
}

// StorageConfig controls result export.
type StorageConfig struct {
	// Type is one of "stdout", "json", "jsonl", "csv".
	Type       string `mapstructure:"type"        yaml:"type"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  15 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			},
		},
		Site: SiteConfig{
			BaseURL:            "https://www.tiktok.com",
			MobileBaseURL:      "https://m.tiktok.com",
			Referer:            "https://www.tiktok.com/",
			SearchEndpoint:     "/api/search/general/full/",
			UserDetailEndpoint: "/api/user/detail/",
			ItemListEndpoint:   "/api/post/item_list/",
		},
		Discovery: DiscoveryConfig{
			Count: 5,
		},
		Storage: StorageConfig{
			Type:       "stdout",
			OutputPath: "./output",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
