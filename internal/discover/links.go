package discover

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
)

// HarvestVideoLinks scans a page's anchors for /video/ links, resolving
// them against the base URL. Off-site links are dropped.
func HarvestVideoLinks(body []byte, baseURL string) []string {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	siteHost := strings.TrimPrefix(base.Hostname(), "www.")

	var urls []string
	for _, a := range htmlquery.Find(doc, `//a[contains(@href, "/video/")]`) {
		href := htmlquery.SelectAttr(a, "href")
		if href == "" {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(u)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		if !strings.HasSuffix(abs.Hostname(), siteHost) {
			continue
		}
		urls = append(urls, abs.String())
	}
	return dedupe(urls)
}
