package rightmove

import (
	"errors"
	"testing"

	"property-scraper/scraper"
)

const (
	startMarker = "window.jsonModel = "
	endMarker   = "</script>"
)

func TestExtractPayload(t *testing.T) {
	page := `<html><script>window.jsonModel = {"properties":[{"id":1}]};</script></html>`

	raw, model, err := ExtractPayload(page, startMarker, endMarker)
	if err != nil {
		t.Fatalf("ExtractPayload: %v", err)
	}
	if raw != `{"properties":[{"id":1}]}` {
		t.Errorf("raw: got %q", raw)
	}
	props := Properties(model)
	if len(props) != 1 {
		t.Fatalf("properties: got %d, want 1", len(props))
	}
	if id, _ := props[0].Get("id"); id == nil || id.(interface{ String() string }).String() != "1" {
		t.Errorf("id: got %v", id)
	}
}

func TestExtractPayloadTrimsWhitespaceAndOneSemicolon(t *testing.T) {
	page := "<script>window.jsonModel = \n  {\"a\":\"x;\"}; \n</script>"
	raw, _, err := ExtractPayload(page, startMarker, endMarker)
	if err != nil {
		t.Fatal(err)
	}
	if raw != `{"a":"x;"}` {
		t.Errorf("raw: got %q", raw)
	}

	raw, _, err = ExtractPayload(`window.jsonModel = {"a":1};;</script>`, startMarker, endMarker)
	if !errors.Is(err, scraper.ErrMalformedPayload) {
		t.Errorf("double semicolon: got err %v", err)
	}
	if raw != `{"a":1};` {
		t.Errorf("only one semicolon should be removed, got %q", raw)
	}
}

func TestExtractPayloadUsesFirstEndMarkerAfterStart(t *testing.T) {
	page := `<script>var x = 1;</script><script>window.jsonModel = {"b":2}</script><script>other()</script>`
	raw, model, err := ExtractPayload(page, startMarker, endMarker)
	if err != nil {
		t.Fatal(err)
	}
	if raw != `{"b":2}` {
		t.Errorf("raw: got %q", raw)
	}
	if model.Len() != 1 {
		t.Errorf("model keys: got %v", model.Keys())
	}
}

func TestExtractPayloadErrors(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		wantErr error
		wantRaw string
	}{
		{"no start marker", `<script>var a = {};</script>`, scraper.ErrMarkerNotFound, ""},
		{"no end marker", `<script>window.jsonModel = {"a":1};`, scraper.ErrMarkerNotFound, ""},
		{"malformed", `<script>window.jsonModel = {"a":};</script>`, scraper.ErrMalformedPayload, `{"a":}`},
		{"top level array", `<script>window.jsonModel = [1,2];</script>`, scraper.ErrMalformedPayload, `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, model, err := ExtractPayload(tt.page, startMarker, endMarker)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if model != nil {
				t.Errorf("model should be nil on error")
			}
			if raw != tt.wantRaw {
				t.Errorf("raw: got %q, want %q", raw, tt.wantRaw)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	tests := []struct {
		name string
		page string
		want int
	}{
		{"missing key", `window.jsonModel = {"other":[]}</script>`, 0},
		{"not an array", `window.jsonModel = {"properties":{"id":1}}</script>`, 0},
		{"empty array", `window.jsonModel = {"properties":[]}</script>`, 0},
		{"skips non-objects", `window.jsonModel = {"properties":[{"id":1},2,"x",{"id":2}]}</script>`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, model, err := ExtractPayload(tt.page, startMarker, endMarker)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(Properties(model)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
	if Properties(nil) != nil {
		t.Error("Properties(nil) should be nil")
	}
}
