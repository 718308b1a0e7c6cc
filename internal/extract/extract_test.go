package extract

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/tokmeter/tokmeter/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const universalJSON = `{
	"__DEFAULT_SCOPE__": {
		"webapp.video-detail": {
			"itemInfo": {
				"itemStruct": {
					"id": "7306131928117562668",
					"desc": "new recipe drop #Cooking #cooking #pasta",
					"createTime": "1700000000",
					"stats": {
						"playCount": 1234567,
						"diggCount": "45,210",
						"shareCount": 321.0,
						"commentCount": "76"
					},
					"author": {"uniqueId": "gopherchef"}
				}
			}
		}
	}
}`

const sigiJSON = `{
	"ItemModule": {
		"7111111111111111111": {
			"id": "7111111111111111111",
			"desc": "older upload #archive",
			"createTime": 1600000000,
			"stats": {"playCount": 10, "diggCount": 1, "shareCount": 0, "commentCount": 0},
			"author": "gopherchef"
		},
		"7222222222222222222": {
			"id": "7222222222222222222",
			"desc": "latest upload #fresh",
			"createTime": 1650000000,
			"stats": {"playCount": 999, "diggCount": 88, "shareCount": 7, "commentCount": 6},
			"author": "gopherchef"
		}
	}
}`

const nextJSON = `{
	"props": {
		"pageProps": {
			"itemInfo": {
				"itemStruct": {
					"id": "6999999999999999999",
					"desc": "legacy page",
					"stats": {"playCount": "42"},
					"author": {"uniqueId": "oldtimer"}
				}
			}
		}
	}
}`

func scriptPage(id, payload string) string {
	return `<!DOCTYPE html><html><head><title>t</title></head><body>
<script id="` + id + `" type="application/json">` + payload + `</script>
</body></html>`
}

func makeResp(url, body string) *types.Response {
	req, _ := types.NewRequest(url)
	return &types.Response{
		Request:     req,
		StatusCode:  200,
		Body:        []byte(body),
		ContentType: "text/html",
	}
}

func TestExtractUniversalData(t *testing.T) {
	e := NewExtractor(testLogger)
	resp := makeResp("https://www.tiktok.com/@gopherchef/video/7306131928117562668",
		scriptPage("__UNIVERSAL_DATA_FOR_REHYDRATION__", universalJSON))

	rec, err := e.Extract(resp)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	if rec.ID != "7306131928117562668" {
		t.Errorf("id = %q", rec.ID)
	}
	if rec.Author != "gopherchef" {
		t.Errorf("author = %q", rec.Author)
	}
	if rec.Format != string(FormatUniversalData) {
		t.Errorf("format = %q", rec.Format)
	}
	if got := types.CountValue(rec.Views); got != 1234567 {
		t.Errorf("views = %d", got)
	}
	if got := types.CountValue(rec.Likes); got != 45210 {
		t.Errorf("likes (comma string) = %d", got)
	}
	if got := types.CountValue(rec.Shares); got != 321 {
		t.Errorf("shares (float) = %d", got)
	}
	if got := types.CountValue(rec.Comments); got != 76 {
		t.Errorf("comments (digit string) = %d", got)
	}
	if len(rec.Hashtags) != 2 || rec.Hashtags[0] != "#Cooking" || rec.Hashtags[1] != "#pasta" {
		t.Errorf("hashtags = %v", rec.Hashtags)
	}
}

func TestExtractSigiStateNewestWins(t *testing.T) {
	e := NewExtractor(testLogger)
	resp := makeResp("https://www.tiktok.com/@gopherchef/video/7222222222222222222",
		scriptPage("SIGI_STATE", sigiJSON))

	rec, err := e.Extract(resp)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	if rec.ID != "7222222222222222222" {
		t.Errorf("expected newest ItemModule entry, got id %q", rec.ID)
	}
	if rec.Author != "gopherchef" {
		t.Errorf("bare string author not handled: %q", rec.Author)
	}
	if rec.Format != string(FormatSigiState) {
		t.Errorf("format = %q", rec.Format)
	}
}

func TestExtractNextData(t *testing.T) {
	e := NewExtractor(testLogger)
	resp := makeResp("https://www.tiktok.com/@oldtimer/video/6999999999999999999",
		scriptPage("__NEXT_DATA__", nextJSON))

	rec, err := e.Extract(resp)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	if rec.ID != "6999999999999999999" {
		t.Errorf("id = %q", rec.ID)
	}
	if got := types.CountValue(rec.Views); got != 42 {
		t.Errorf("views = %d", got)
	}
	// Counts the page never exposed stay unknown, not zero.
	if rec.Likes != nil {
		t.Errorf("likes should be nil, got %d", *rec.Likes)
	}
}

func TestExtractFormatFallbackOrder(t *testing.T) {
	// When several blobs are present the newest structure wins.
	body := scriptPage("SIGI_STATE", sigiJSON) +
		scriptPage("__UNIVERSAL_DATA_FOR_REHYDRATION__", universalJSON)

	e := NewExtractor(testLogger)
	rec, err := e.Extract(makeResp("https://www.tiktok.com/@x/video/1", body))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if rec.Format != string(FormatUniversalData) {
		t.Errorf("expected universal format to win, got %q", rec.Format)
	}
}

func TestExtractMalformedBlobFallsThrough(t *testing.T) {
	// A present but unparseable universal blob must not stop the scan.
	body := scriptPage("__UNIVERSAL_DATA_FOR_REHYDRATION__", `{"truncated":`) +
		scriptPage("SIGI_STATE", sigiJSON)

	e := NewExtractor(testLogger)
	rec, err := e.Extract(makeResp("https://www.tiktok.com/@x/video/1", body))
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if rec.Format != string(FormatSigiState) {
		t.Errorf("expected sigi fallback, got %q", rec.Format)
	}
}

func TestExtractEmptyBody(t *testing.T) {
	e := NewExtractor(testLogger)
	_, err := e.Extract(makeResp("https://www.tiktok.com/@x/video/1", ""))
	if !errors.Is(err, types.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestExtractNoEmbeddedState(t *testing.T) {
	e := NewExtractor(testLogger)
	_, err := e.Extract(makeResp("https://www.tiktok.com/@x/video/1",
		"<html><body><h1>Please verify you are human</h1></body></html>"))
	if !errors.Is(err, types.ErrNoEmbeddedState) {
		t.Errorf("expected ErrNoEmbeddedState, got %v", err)
	}

	var ee *types.ExtractError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExtractError, got %T", err)
	}
	if ee.URL == "" {
		t.Error("extract error should carry the page URL")
	}
}

func TestStatePayloadTokenizerFallback(t *testing.T) {
	// Unbalanced markup before the script element defeats naive DOM
	// parsing; the tokenizer scan must still find the payload.
	body := `<html><body><div><span><table><tr><td>
<script id="SIGI_STATE" type="application/json">` + sigiJSON + `</script>`

	payload, ok := StatePayload(makeResp("https://www.tiktok.com/@x/video/1", body), FormatSigiState)
	if !ok {
		t.Fatal("payload not found")
	}
	if data, ok := StateJSON(makeResp("https://www.tiktok.com/@x/video/1", body), FormatSigiState); !ok || data["ItemModule"] == nil {
		t.Errorf("payload did not parse: %s", payload[:40])
	}
}

func TestStatePayloadMissing(t *testing.T) {
	resp := makeResp("https://www.tiktok.com/@x/video/1", "<html><body>nothing</body></html>")
	if _, ok := StatePayload(resp, FormatUniversalData); ok {
		t.Error("expected no payload")
	}
	if _, ok := StateJSON(resp, FormatNextData); ok {
		t.Error("expected no state")
	}
}

func TestVideoItemPreservesBigIDs(t *testing.T) {
	// IDs near 2^63 lose digits through float64; json.Number must keep
	// them exact.
	page := scriptPage("__NEXT_DATA__", `{
		"props": {"pageProps": {"itemInfo": {"itemStruct": {
			"id": 7306131928117562668,
			"desc": "",
			"stats": {}
		}}}}
	}`)

	item, ok := VideoItem(makeResp("https://www.tiktok.com/@x/video/1", page), FormatNextData)
	if !ok {
		t.Fatal("item not found")
	}
	if got := AsString(item["id"]); got != "7306131928117562668" {
		t.Errorf("id lost precision: %q", got)
	}
}
