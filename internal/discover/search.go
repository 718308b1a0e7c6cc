package discover

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tokmeter/tokmeter/internal/extract"
	"github.com/tokmeter/tokmeter/internal/types"
)

// Search queries the keyword search endpoint and returns up to count
// canonical video URLs. Only entries of type 1 (videos) are kept.
func (d *Discoverer) Search(ctx context.Context, keyword string, count int) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: empty keyword", types.ErrInvalidURL)
	}
	if count < 1 {
		count = 1
	}

	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("offset", "0")
	q.Set("count", strconv.Itoa(count))
	q.Set("search_source", "normal_search")

	searchURL := d.site.BaseURL + d.site.SearchEndpoint + "?" + q.Encode()
	resp, err := d.fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, &types.FetchError{
			URL:        searchURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("search blocked"),
		}
	}

	data, ok := decodeJSON(resp.Body)
	if !ok {
		return nil, fmt.Errorf("search %q: response is not JSON", keyword)
	}

	entries, _ := data["data"].([]any)

	var urls []string
	for _, v := range entries {
		entry, ok := v.(map[string]any)
		if !ok {
			continue
		}
		// type 1 = video result
		if types.CountValue(extract.CoerceCount(entry["type"])) != 1 {
			continue
		}

		item := extract.Dig(entry, "item")
		id := extract.AsString(item["id"])
		if id == "" {
			continue
		}
		author := extract.AsString(extract.Dig(item, "author")["unique_id"])
		urls = append(urls, d.videoURL(author, id))
	}

	urls = truncate(dedupe(urls), count)
	if len(urls) == 0 {
		return nil, fmt.Errorf("search %q: %w", keyword, types.ErrNoResults)
	}

	d.metrics.URLsDiscovered.Add(int64(len(urls)))
	d.logger.Info("search complete", "keyword", keyword, "found", len(urls))
	return urls, nil
}

// SearchHashtag runs a keyword search for a hashtag, prefixing a
// missing # on the tag.
func (d *Discoverer) SearchHashtag(ctx context.Context, tag string, count int) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: empty hashtag", types.ErrInvalidURL)
	}
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return d.Search(ctx, tag, count)
}
