package discover

import (
	"testing"
)

func TestHarvestVideoLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/@alice/video/7001">relative</a>
		<a href="https://www.tiktok.com/@bob/video/7002?lang=en">absolute</a>
		<a href="https://m.tiktok.com/@carol/video/7003">subdomain</a>
		<a href="https://phish.example.com/@x/video/1">offsite</a>
		<a href="javascript:void(0)/video/99">script scheme</a>
		<a href="/@alice/video/7001">duplicate</a>
		<a>no href</a>
	</body></html>`)

	urls := HarvestVideoLinks(body, "https://www.tiktok.com")
	if len(urls) != 3 {
		t.Fatalf("urls = %v", urls)
	}
	if urls[0] != "https://www.tiktok.com/@alice/video/7001" {
		t.Errorf("relative link not resolved: %q", urls[0])
	}
	if urls[1] != "https://www.tiktok.com/@bob/video/7002?lang=en" {
		t.Errorf("urls[1] = %q", urls[1])
	}
	if urls[2] != "https://m.tiktok.com/@carol/video/7003" {
		t.Errorf("same-site subdomain should be kept: %q", urls[2])
	}
}

func TestHarvestVideoLinksEmpty(t *testing.T) {
	if urls := HarvestVideoLinks([]byte("<html><body>no links</body></html>"), "https://www.tiktok.com"); len(urls) != 0 {
		t.Errorf("urls = %v", urls)
	}
	if urls := HarvestVideoLinks(nil, "https://www.tiktok.com"); len(urls) != 0 {
		t.Errorf("urls from nil body = %v", urls)
	}
}
