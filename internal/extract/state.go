package extract

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tokmeter/tokmeter/internal/types"
)

// StateFormat identifies which embedded JSON blob a payload came from.
type StateFormat string

const (
	// FormatUniversalData is the current page structure.
	FormatUniversalData StateFormat = "universal_data"
	// FormatSigiState is the older structure.
	FormatSigiState StateFormat = "sigi_state"
	// FormatNextData is the oldest structure.
	FormatNextData StateFormat = "next_data"
)

// formatOrder is the fallback order: newest structure first.
var formatOrder = []StateFormat{FormatUniversalData, FormatSigiState, FormatNextData}

// scriptID returns the id attribute of the script element carrying the
// state blob for this format.
func (f StateFormat) scriptID() string {
	switch f {
	case FormatUniversalData:
		return "__UNIVERSAL_DATA_FOR_REHYDRATION__"
	case FormatSigiState:
		return "SIGI_STATE"
	case FormatNextData:
		return "__NEXT_DATA__"
	}
	return ""
}

var scriptREs = map[StateFormat]*regexp.Regexp{
	FormatUniversalData: compileScriptRE(FormatUniversalData.scriptID()),
	FormatSigiState:     compileScriptRE(FormatSigiState.scriptID()),
	FormatNextData:      compileScriptRE(FormatNextData.scriptID()),
}

func compileScriptRE(id string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<script[^>]*id="` + regexp.QuoteMeta(id) + `"[^>]*>(.*?)</script>`)
}

// StatePayload locates the raw JSON payload of the given format's script
// element. DOM lookup is tried first; regex over the raw bytes and a
// streaming tokenizer scan cover pages too mangled for the DOM parser.
func StatePayload(resp *types.Response, format StateFormat) ([]byte, bool) {
	id := format.scriptID()
	if id == "" {
		return nil, false
	}

	if doc, err := resp.Document(); err == nil {
		text := strings.TrimSpace(doc.Find(`script[id="` + id + `"]`).First().Text())
		if text != "" {
			return []byte(text), true
		}
	}

	if re, ok := scriptREs[format]; ok {
		if m := re.FindSubmatch(resp.Body); m != nil {
			if payload := bytes.TrimSpace(m[1]); len(payload) > 0 {
				return payload, true
			}
		}
	}

	return payloadFromTokens(resp.Body, id)
}

// StateJSON locates and parses the state blob of the given format.
// Numbers decode as json.Number: video IDs exceed float64 precision.
func StateJSON(resp *types.Response, format StateFormat) (map[string]any, bool) {
	payload, ok := StatePayload(resp, format)
	if !ok {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, false
	}
	return data, true
}

// payloadFromTokens scans the HTML token stream for the script element.
// Works even when the surrounding markup is truncated or unbalanced.
func payloadFromTokens(body []byte, id string) ([]byte, bool) {
	z := html.NewTokenizer(bytes.NewReader(body))
	inTarget := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			return nil, false
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			inTarget = false
			if string(name) != "script" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "id" && string(val) == id {
					inTarget = true
					break
				}
			}
		case html.TextToken:
			if inTarget {
				if text := bytes.TrimSpace(z.Text()); len(text) > 0 {
					return text, true
				}
			}
		case html.EndTagToken:
			inTarget = false
		}
	}
}
