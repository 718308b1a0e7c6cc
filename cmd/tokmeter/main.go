package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tokmeter/tokmeter/internal/config"
	"github.com/tokmeter/tokmeter/internal/fetcher"
	"github.com/tokmeter/tokmeter/internal/observability"
	"github.com/tokmeter/tokmeter/internal/scrape"
	"github.com/tokmeter/tokmeter/internal/storage"
	"github.com/tokmeter/tokmeter/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	cookie      string
	cookieFile  string
	outputPath  string
	outputType  string
	saveHTML    string
	fetcherType string
	userAgent   string
	proxyURL    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tokmeter",
		Short: "TokMeter — TikTok video metadata scraper",
		Long: `TokMeter scrapes public TikTok video pages and extracts metadata
from the JSON state embedded in the HTML.

Features:
  • Video metadata: caption, views, likes, shares, comments, hashtags
  • Three embedded state formats with ordered fallback
  • Discovery: profile latest video, keyword search, trending, hashtags
  • JSON, JSONL, CSV export
  • Plain HTTP or headless browser fetching
  • Session cookie support for geo-blocked regions
  • Prometheus metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cookie, "cookie", "", "raw Cookie header value sent with every request")
	rootCmd.PersistentFlags().StringVar(&cookieFile, "cookie-file", "", "file holding the raw Cookie header value")

	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(latestCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(hashtagCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// scrapeCmd creates the "scrape" subcommand.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]...",
		Short: "Scrape metadata from video URLs",
		Long:  "Fetch one or more public video pages and extract their metadata records.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScrape,
	}

	addOutputFlags(cmd)
	addFetchFlags(cmd)

	return cmd
}

// runScrape executes the scrape command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	for _, rawURL := range args {
		if err := config.ValidateURL(rawURL); err != nil {
			return fmt.Errorf("invalid URL %q: %w", rawURL, err)
		}
	}

	f, err := buildFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer f.Close()

	metrics := startMetrics(cfg, logger)
	scraper := scrape.New(f, logger,
		scrape.WithMetrics(metrics),
		scrape.WithSaveHTML(saveHTML),
	)

	ctx, stop := signalContext()
	defer stop()

	start := time.Now()
	records := scraper.ScrapeAll(ctx, args)
	elapsed := time.Since(start)

	if len(records) == 0 {
		return fmt.Errorf("no records extracted from %d URL(s)", len(args))
	}

	if err := exportRecords(cfg, records, logger); err != nil {
		return err
	}

	logger.Info("scrape complete",
		"elapsed", elapsed,
		"scraped", len(records),
		"failed", len(args)-len(records),
		"views", metrics.TotalViews.Load(),
		"likes", metrics.TotalLikes.Load(),
		"bytes", metrics.BytesDownloaded.Load(),
	)
	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("TokMeter %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Fetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("  Proxy:             %s\n", orNone(cfg.Fetcher.ProxyURL))
			fmt.Printf("  Cookie:            %v\n", cfg.Fetcher.Cookie != "" || cfg.Fetcher.CookieFile != "")
			fmt.Printf("\nSite:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Site.BaseURL)
			fmt.Printf("  Mobile Base URL:   %s\n", cfg.Site.MobileBaseURL)
			fmt.Printf("  Search Endpoint:   %s\n", cfg.Site.SearchEndpoint)
			fmt.Printf("\nDiscovery:\n")
			fmt.Printf("  Default Count:     %d\n", cfg.Discovery.Count)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			return nil
		},
	}
	return cmd
}

// addOutputFlags registers the export flags shared by scraping commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output directory (default: print to stdout)")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: json, jsonl, csv")
	cmd.Flags().StringVar(&saveHTML, "save-html", "", "dump each fetched page's HTML to this file for debugging")
}

// addFetchFlags registers the fetch flags shared by scraping commands.
func addFetchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "fetcher type: http or browser")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "custom User-Agent string")
	cmd.Flags().StringVar(&proxyURL, "proxy", "", "proxy URL for all requests")
}

// setup loads the config, applies CLI overrides, and builds the logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, setupLogger(cfg), nil
}

// setupLogger creates a structured logger.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if cookie != "" {
		cfg.Fetcher.Cookie = cookie
	}
	if cookieFile != "" {
		cfg.Fetcher.CookieFile = cookieFile
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetcherType)
	}
	if userAgent != "" {
		cfg.Fetcher.UserAgents = []string{userAgent}
	}
	if proxyURL != "" {
		cfg.Fetcher.ProxyURL = proxyURL
	}
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
		if cfg.Storage.Type == "stdout" {
			cfg.Storage.Type = "json"
		}
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
}

// buildFetcher creates the configured fetcher with the effective cookie.
func buildFetcher(cfg *config.Config, logger *slog.Logger) (fetcher.Fetcher, error) {
	cookieValue, err := fetcher.ResolveCookie(cfg.Fetcher.Cookie, cfg.Fetcher.CookieFile)
	if err != nil {
		return nil, err
	}

	switch cfg.Fetcher.Type {
	case "browser":
		return fetcher.NewBrowserFetcher(cfg, logger)
	default:
		return fetcher.NewHTTPFetcher(cfg, cookieValue, logger)
	}
}

// startMetrics creates the metrics collector, serving it over HTTP when
// enabled.
func startMetrics(cfg *config.Config, logger *slog.Logger) *observability.Metrics {
	metrics := observability.NewMetrics(logger)
	if cfg.Metrics.Enabled {
		if err := metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}
	return metrics
}

// exportRecords writes records through the configured storage backend.
func exportRecords(cfg *config.Config, records []*types.VideoRecord, logger *slog.Logger) error {
	store, err := storage.NewFileStorage(cfg.Storage.Type, cfg.Storage.OutputPath, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := store.Store(records); err != nil {
		store.Close()
		return fmt.Errorf("store records: %w", err)
	}
	return store.Close()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
