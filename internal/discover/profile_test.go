package discover

import (
	"context"
	"errors"
	"testing"

	"github.com/tokmeter/tokmeter/internal/types"
)

func TestResolveLatestFromUniversal(t *testing.T) {
	f := &stubFetcher{}
	f.on("/@gopher", 200, scriptPage("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{
		"__DEFAULT_SCOPE__": {
			"webapp.user-detail": {
				"itemList": [
					{"id": "7306131928117562668", "createTime": 1700000000},
					{"id": "7222222222222222222", "createTime": 1600000000}
				]
			}
		}
	}`))

	d := newTestDiscoverer(f)
	got, err := d.ResolveLatest(context.Background(), "@gopher")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	want := "https://www.tiktok.com/@gopher/video/7306131928117562668"
	if got != want {
		t.Errorf("latest = %q, want %q", got, want)
	}
}

func TestResolveLatestFromSigiList(t *testing.T) {
	f := &stubFetcher{}
	f.on("/@gopher", 200, scriptPage("SIGI_STATE", `{
		"ItemList": {"user-post": {"list": ["7111", "7000"]}},
		"ItemModule": {}
	}`))

	d := newTestDiscoverer(f)
	got, err := d.ResolveLatest(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "https://www.tiktok.com/@gopher/video/7111" {
		t.Errorf("latest = %q", got)
	}
}

func TestResolveLatestSigiModuleNewest(t *testing.T) {
	f := &stubFetcher{}
	f.on("/@gopher", 200, scriptPage("SIGI_STATE", `{
		"ItemModule": {
			"1": {"id": "1", "createTime": 100},
			"2": {"id": "2", "createTime": 300},
			"3": {"id": "3", "createTime": 200}
		}
	}`))

	d := newTestDiscoverer(f)
	got, err := d.ResolveLatest(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "https://www.tiktok.com/@gopher/video/2" {
		t.Errorf("expected newest by createTime, got %q", got)
	}
}

func TestResolveLatestAPIFallback(t *testing.T) {
	f := &stubFetcher{}
	// Profile pages all blocked; only the web API answers.
	f.on("/api/user/detail/", 200, `{"userInfo": {"user": {"secUid": "MS4wLjABAAAA-test"}}}`)
	f.on("/api/post/item_list/", 200, `{
		"itemList": [
			{"id": "7001", "createTime": 10},
			{"id": "7002", "createTime": 20}
		]
	}`)

	d := newTestDiscoverer(f)
	got, err := d.ResolveLatest(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "https://www.tiktok.com/@gopher/video/7002" {
		t.Errorf("latest via API = %q", got)
	}
}

func TestResolveLatestEmptyProfile(t *testing.T) {
	f := &stubFetcher{}
	f.on("/@ghost", 200, "<html><body>no posts yet</body></html>")

	d := newTestDiscoverer(f)
	_, err := d.ResolveLatest(context.Background(), "ghost")
	if !errors.Is(err, types.ErrProfileEmpty) {
		t.Errorf("expected ErrProfileEmpty, got %v", err)
	}
}

func TestResolveLatestEmptyUsername(t *testing.T) {
	d := newTestDiscoverer(&stubFetcher{})
	if _, err := d.ResolveLatest(context.Background(), "  @  "); !errors.Is(err, types.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

func TestResolveLatestTriesVariants(t *testing.T) {
	f := &stubFetcher{}
	// Desktop variants blocked, mobile host serves the state.
	f.on("m.tiktok.com/@gopher", 200, scriptPage("__NEXT_DATA__", `{
		"props": {"pageProps": {"itemInfo": {"itemStruct": {"id": "7333"}}}}
	}`))
	f.on("www.tiktok.com/@gopher", 403, "blocked")

	d := newTestDiscoverer(f)
	got, err := d.ResolveLatest(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if got != "https://www.tiktok.com/@gopher/video/7333" {
		t.Errorf("latest = %q", got)
	}
	if len(f.calls) < 4 {
		t.Errorf("expected all desktop variants tried first, got %d calls", len(f.calls))
	}
}
