package discover

import (
	"context"
	"fmt"
	"sort"

	"github.com/tokmeter/tokmeter/internal/extract"
	"github.com/tokmeter/tokmeter/internal/types"
)

// Trending harvests video URLs from the For You feed. The main page is
// the fallback feed; anchor harvesting over the raw HTML is the last
// resort when no embedded state is served.
func (d *Discoverer) Trending(ctx context.Context, count int) ([]string, error) {
	if count < 1 {
		count = 1
	}

	var resp *types.Response
	for _, feedURL := range []string{d.site.BaseURL + "/foryou", d.site.BaseURL + "/"} {
		r, err := d.fetch(ctx, feedURL)
		if err != nil {
			d.logger.Debug("feed fetch failed", "url", feedURL, "error", err)
			continue
		}
		if r.IsSuccess() {
			resp = r
			break
		}
		d.logger.Debug("feed blocked", "url", feedURL, "status", r.StatusCode)
	}
	if resp == nil {
		return nil, fmt.Errorf("trending: %w", types.ErrNoResults)
	}

	urls := d.trendingFromState(resp)
	if len(urls) == 0 {
		urls = HarvestVideoLinks(resp.Body, d.site.BaseURL)
	}

	urls = truncate(dedupe(urls), count)
	if len(urls) == 0 {
		return nil, fmt.Errorf("trending: %w", types.ErrNoResults)
	}

	d.metrics.URLsDiscovered.Add(int64(len(urls)))
	d.logger.Info("trending feed harvested", "found", len(urls))
	return urls, nil
}

// trendingFromState collects video URLs from the universal state blob:
// the video-detail item if present, then any ItemModule entries.
func (d *Discoverer) trendingFromState(resp *types.Response) []string {
	data, ok := extract.StateJSON(resp, extract.FormatUniversalData)
	if !ok {
		return nil
	}
	scope := extract.Dig(data, "__DEFAULT_SCOPE__")
	if scope == nil {
		return nil
	}

	var urls []string

	detail := extract.Dig(scope, "webapp.video-detail", "itemInfo", "itemStruct")
	if id := extract.AsString(detail["id"]); id != "" {
		author := extract.AsString(extract.Dig(detail, "author")["uniqueId"])
		urls = append(urls, d.videoURL(author, id))
	}

	items := moduleItems(extract.Dig(scope, "ItemModule"))
	// Map iteration order is random; newest first keeps output stable.
	sort.Slice(items, func(i, j int) bool {
		ti, tj := extract.CreateTime(items[i]), extract.CreateTime(items[j])
		if ti != tj {
			return ti > tj
		}
		return itemID(items[i]) < itemID(items[j])
	})
	for _, item := range items {
		id := itemID(item)
		if id == "" {
			continue
		}
		author := extract.AsString(extract.Dig(item, "author")["uniqueId"])
		if author == "" {
			if s, ok := item["author"].(string); ok {
				author = s
			}
		}
		urls = append(urls, d.videoURL(author, id))
	}

	return urls
}
