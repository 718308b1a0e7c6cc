package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokmeter/tokmeter/internal/discover"
	"github.com/tokmeter/tokmeter/internal/scrape"
)

var (
	discoverCount int
	urlsOnly      bool
)

// latestCmd creates the "latest" subcommand.
func latestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latest [username]",
		Short: "Scrape a profile's most recent video",
		Long:  "Resolve the most recent video on a public profile and scrape its metadata.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(func(ctx context.Context, d *discover.Discoverer) ([]string, error) {
				u, err := d.ResolveLatest(ctx, args[0])
				if err != nil {
					return nil, err
				}
				return []string{u}, nil
			})
		},
	}

	addDiscoverFlags(cmd)
	return cmd
}

// searchCmd creates the "search" subcommand.
func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Scrape videos found by keyword search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(func(ctx context.Context, d *discover.Discoverer) ([]string, error) {
				return d.Search(ctx, args[0], discoverCount)
			})
		},
	}

	addDiscoverFlags(cmd)
	return cmd
}

// trendingCmd creates the "trending" subcommand.
func trendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Scrape videos from the trending feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(func(ctx context.Context, d *discover.Discoverer) ([]string, error) {
				return d.Trending(ctx, discoverCount)
			})
		},
	}

	addDiscoverFlags(cmd)
	return cmd
}

// hashtagCmd creates the "hashtag" subcommand.
func hashtagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hashtag [tag]",
		Short: "Scrape videos found by hashtag search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(func(ctx context.Context, d *discover.Discoverer) ([]string, error) {
				return d.SearchHashtag(ctx, args[0], discoverCount)
			})
		},
	}

	addDiscoverFlags(cmd)
	return cmd
}

// addDiscoverFlags registers flags shared by all discovery subcommands.
func addDiscoverFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&discoverCount, "count", "n", 0, "number of videos to collect (default: config)")
	cmd.Flags().BoolVar(&urlsOnly, "urls-only", false, "print discovered URLs without scraping them")
	addOutputFlags(cmd)
	addFetchFlags(cmd)
}

// runDiscover runs a discovery function and then scrapes what it found,
// unless --urls-only was given.
func runDiscover(find func(context.Context, *discover.Discoverer) ([]string, error)) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if discoverCount < 1 {
		discoverCount = cfg.Discovery.Count
	}

	f, err := buildFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer f.Close()

	metrics := startMetrics(cfg, logger)
	d := discover.New(f, &cfg.Site, logger, discover.WithMetrics(metrics))

	ctx, stop := signalContext()
	defer stop()

	urls, err := find(ctx, d)
	if err != nil {
		return err
	}

	if urlsOnly {
		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	}

	scraper := scrape.New(f, logger,
		scrape.WithMetrics(metrics),
		scrape.WithSaveHTML(saveHTML),
	)

	records := scraper.ScrapeAll(ctx, urls)
	if len(records) == 0 {
		return fmt.Errorf("no records extracted from %d discovered URL(s)", len(urls))
	}

	return exportRecords(cfg, records, logger)
}
