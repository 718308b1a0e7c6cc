package discover

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tokmeter/tokmeter/internal/extract"
	"github.com/tokmeter/tokmeter/internal/types"
)

// ResolveLatest resolves the most recent video URL for a username by
// scraping the profile page. Several profile URL variants are tried to
// improve the odds of receiving parseable HTML; the web API is the
// final fallback (and usually needs session cookies).
func (d *Discoverer) ResolveLatest(ctx context.Context, username string) (string, error) {
	uname := strings.TrimPrefix(strings.TrimSpace(username), "@")
	if uname == "" {
		return "", fmt.Errorf("%w: empty username", types.ErrInvalidURL)
	}

	variants := []string{
		d.site.BaseURL + "/@" + uname,
		d.site.BaseURL + "/@" + uname + "?lang=en",
		d.site.BaseURL + "/@" + uname + "?lang=en-US",
		d.site.MobileBaseURL + "/@" + uname,
	}

	for _, profileURL := range variants {
		resp, err := d.fetch(ctx, profileURL)
		if err != nil {
			d.logger.Debug("profile variant failed", "url", profileURL, "error", err)
			continue
		}
		if !resp.IsSuccess() {
			d.logger.Debug("profile variant blocked", "url", profileURL, "status", resp.StatusCode)
			continue
		}

		for _, probe := range []func(*types.Response) string{
			latestFromUniversal,
			latestFromSigi,
			latestFromNextData,
		} {
			if id := probe(resp); id != "" {
				u := d.videoURL(uname, id)
				d.metrics.URLsDiscovered.Add(1)
				d.logger.Info("latest video resolved", "username", uname, "url", u)
				return u, nil
			}
		}
	}

	id, err := d.latestFromAPI(ctx, uname)
	if err != nil {
		d.logger.Debug("profile API fallback failed", "username", uname, "error", err)
		return "", fmt.Errorf("resolve latest for %q: %w", uname, types.ErrProfileEmpty)
	}

	u := d.videoURL(uname, id)
	d.metrics.URLsDiscovered.Add(1)
	d.logger.Info("latest video resolved via API", "username", uname, "url", u)
	return u, nil
}

// latestFromUniversal reads the current page structure:
// __DEFAULT_SCOPE__ → webapp.user-detail → itemList, newest first.
func latestFromUniversal(resp *types.Response) string {
	data, ok := extract.StateJSON(resp, extract.FormatUniversalData)
	if !ok {
		return ""
	}

	userDetail := extract.Dig(data, "__DEFAULT_SCOPE__", "webapp.user-detail")
	items, _ := userDetail["itemList"].([]any)
	if len(items) == 0 {
		return ""
	}
	first, _ := items[0].(map[string]any)
	return extract.AsString(first["id"])
}

// latestFromSigi reads the older SIGI structure. ItemList.user-post
// carries ordered video ids, newest first; ItemModule is the fallback,
// picking the newest entry by createTime.
func latestFromSigi(resp *types.Response) string {
	data, ok := extract.StateJSON(resp, extract.FormatSigiState)
	if !ok {
		return ""
	}

	if ids := extract.DigSlice(data, "ItemList", "user-post", "list"); len(ids) > 0 {
		if id := extract.AsString(ids[0]); id != "" {
			return id
		}
	}

	if item := newestOf(moduleItems(extract.Dig(data, "ItemModule"))); item != nil {
		return itemID(item)
	}
	return ""
}

// latestFromNextData reads the oldest structure under props.pageProps.
func latestFromNextData(resp *types.Response) string {
	data, ok := extract.StateJSON(resp, extract.FormatNextData)
	if !ok {
		return ""
	}
	pageProps := extract.Dig(data, "props", "pageProps")
	if pageProps == nil {
		return ""
	}

	if ids := extract.DigSlice(pageProps, "itemList", "user-post", "list"); len(ids) > 0 {
		if id := extract.AsString(ids[0]); id != "" {
			return id
		}
	}

	if items, _ := pageProps["items"].([]any); len(items) > 0 {
		if item := newestOf(anyItems(items)); item != nil {
			if id := itemID(item); id != "" {
				return id
			}
		}
	}

	return extract.AsString(extract.Dig(pageProps, "itemInfo", "itemStruct")["id"])
}

// latestFromAPI resolves a secUid via /api/user/detail/ and then reads
// the newest post from /api/post/item_list/.
func (d *Discoverer) latestFromAPI(ctx context.Context, uname string) (string, error) {
	q := url.Values{}
	q.Set("aid", "1988")
	q.Set("uniqueId", uname)

	resp, err := d.fetch(ctx, d.site.BaseURL+d.site.UserDetailEndpoint+"?"+q.Encode())
	if err != nil {
		return "", err
	}
	userJSON, ok := decodeJSON(resp.Body)
	if !ok {
		return "", fmt.Errorf("user detail response is not JSON")
	}

	secUid := secUIDFrom(userJSON)
	if secUid == "" {
		return "", fmt.Errorf("no secUid in user detail response")
	}

	q = url.Values{}
	q.Set("aid", "1988")
	q.Set("count", "30")
	q.Set("secUid", secUid)

	resp, err = d.fetch(ctx, d.site.BaseURL+d.site.ItemListEndpoint+"?"+q.Encode())
	if err != nil {
		return "", err
	}
	itemsJSON, ok := decodeJSON(resp.Body)
	if !ok {
		return "", fmt.Errorf("item list response is not JSON")
	}

	items, _ := itemsJSON["itemList"].([]any)
	if len(items) == 0 {
		items, _ = itemsJSON["items"].([]any)
	}
	newest := newestOf(anyItems(items))
	if newest == nil {
		return "", types.ErrProfileEmpty
	}

	id := itemID(newest)
	if id == "" {
		return "", types.ErrProfileEmpty
	}
	return id, nil
}

// secUIDFrom digs a secUid out of a user detail response, tolerating
// the few shapes the endpoint has been seen to return.
func secUIDFrom(data map[string]any) string {
	userInfo := extract.Dig(data, "userInfo")
	if userInfo == nil {
		userInfo = extract.Dig(data, "user")
	}
	if s := extract.AsString(extract.Dig(userInfo, "user")["secUid"]); s != "" {
		return s
	}
	if s := extract.AsString(userInfo["secUid"]); s != "" {
		return s
	}
	return extract.AsString(data["secUid"])
}

// itemID reads an item's id under its known aliases.
func itemID(item map[string]any) string {
	for _, key := range []string{"id", "itemId", "aweme_id"} {
		if id := extract.AsString(item[key]); id != "" {
			return id
		}
	}
	return ""
}

// moduleItems flattens an ItemModule dict into its item values.
func moduleItems(module map[string]any) []map[string]any {
	items := make([]map[string]any, 0, len(module))
	for _, v := range module {
		if item, ok := v.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// anyItems filters a JSON array down to its object elements.
func anyItems(values []any) []map[string]any {
	items := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if item, ok := v.(map[string]any); ok {
			items = append(items, item)
		}
	}
	return items
}

// newestOf picks the item with the largest createTime.
func newestOf(items []map[string]any) map[string]any {
	var newest map[string]any
	var newestTime int64 = -1
	for _, item := range items {
		if t := extract.CreateTime(item); t > newestTime {
			newest = item
			newestTime = t
		}
	}
	return newest
}
