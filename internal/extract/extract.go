// Package extract implements the multi-format metadata extraction: it
// locates one of three embedded JSON state blobs in a video page,
// navigates each format's nested-path schema to a common video item
// shape, and coerces its loosely-typed fields into a VideoRecord.
package extract

import (
	"log/slog"
	"time"

	"github.com/tokmeter/tokmeter/internal/types"
)

// Extractor normalizes embedded page state into VideoRecords.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("component", "extractor"),
	}
}

// Extract tries each known embedded state format in order (newest page
// structure first) and returns the first video record found. It fails
// with ErrNoEmbeddedState when no format yields an item: the page may
// be geo-blocked, private, or require session cookies.
func (e *Extractor) Extract(resp *types.Response) (*types.VideoRecord, error) {
	if len(resp.Body) == 0 {
		return nil, &types.ExtractError{URL: resp.Request.URLString(), Err: types.ErrEmptyResponse}
	}

	for _, format := range formatOrder {
		item, ok := VideoItem(resp, format)
		if !ok {
			continue
		}

		rec := recordFromItem(item, resp)
		rec.Format = string(format)

		e.logger.Debug("metadata extracted",
			"url", resp.Request.URLString(),
			"format", format,
			"id", rec.ID,
		)
		return rec, nil
	}

	return nil, &types.ExtractError{URL: resp.Request.URLString(), Err: types.ErrNoEmbeddedState}
}

// VideoItem navigates a page's state blob of the given format down to
// the common item shape:
//
//	{id, desc, createTime, stats:{playCount, diggCount, shareCount,
//	 commentCount}, author:{uniqueId}}
func VideoItem(resp *types.Response, format StateFormat) (map[string]any, bool) {
	data, ok := StateJSON(resp, format)
	if !ok {
		return nil, false
	}

	var item map[string]any
	switch format {
	case FormatUniversalData:
		item = Dig(data, "__DEFAULT_SCOPE__", "webapp.video-detail", "itemInfo", "itemStruct")
	case FormatSigiState:
		item = newestModuleItem(Dig(data, "ItemModule"))
	case FormatNextData:
		item = Dig(data, "props", "pageProps", "itemInfo", "itemStruct")
	}

	if len(item) == 0 {
		return nil, false
	}
	return item, true
}

// newestModuleItem picks a video entry out of ItemModule, a dict keyed
// by item id. Video pages carry a single entry; should several appear,
// the newest by createTime wins.
func newestModuleItem(module map[string]any) map[string]any {
	var newest map[string]any
	var newestTime int64 = -1

	for _, v := range module {
		item, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if t := CreateTime(item); t > newestTime {
			newest = item
			newestTime = t
		}
	}
	return newest
}

// recordFromItem coerces a video item's fields into a VideoRecord.
func recordFromItem(item map[string]any, resp *types.Response) *types.VideoRecord {
	caption := AsString(item["desc"])
	stats := Dig(item, "stats")

	fetchedAt := resp.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	return &types.VideoRecord{
		URL:       resp.Request.URLString(),
		ID:        AsString(item["id"]),
		Author:    authorHandle(item),
		Caption:   caption,
		Views:     CoerceCount(stats["playCount"]),
		Likes:     CoerceCount(stats["diggCount"]),
		Shares:    CoerceCount(stats["shareCount"]),
		Comments:  CoerceCount(stats["commentCount"]),
		Hashtags:  Hashtags(caption),
		FetchedAt: fetchedAt,
	}
}

// authorHandle reads the creator handle. ItemModule entries carry the
// handle as a bare string; itemStruct nests it under author.uniqueId.
func authorHandle(item map[string]any) string {
	if s, ok := item["author"].(string); ok {
		return s
	}
	return AsString(Dig(item, "author")["uniqueId"])
}
