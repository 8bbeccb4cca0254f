package rightmove

import (
	"fmt"
	"strings"

	"property-scraper/models"
	"property-scraper/scraper"
)

// ExtractPayload locates the script-embedded JSON model in a raw page.
//
// The payload is the text between the first start marker and the next end
// marker after it, trimmed, with one trailing ';' removed. raw is that text
// byte for byte. When the payload is not valid JSON, raw is still returned
// alongside an ErrMalformedPayload error.
func ExtractPayload(page, startMarker, endMarker string) (raw string, parsed *models.Record, err error) {
	start := strings.Index(page, startMarker)
	if start < 0 {
		return "", nil, fmt.Errorf("start marker %q: %w", startMarker, scraper.ErrMarkerNotFound)
	}
	start += len(startMarker)

	end := strings.Index(page[start:], endMarker)
	if end < 0 {
		return "", nil, fmt.Errorf("end marker %q: %w", endMarker, scraper.ErrMarkerNotFound)
	}

	raw = strings.TrimSpace(page[start : start+end])
	raw = strings.TrimSuffix(raw, ";")

	v, err := models.ParseJSON([]byte(raw))
	if err != nil {
		return raw, nil, fmt.Errorf("%w: %v", scraper.ErrMalformedPayload, err)
	}
	parsed, ok := v.(*models.Record)
	if !ok {
		return raw, nil, fmt.Errorf("%w: top level is %T, not an object", scraper.ErrMalformedPayload, v)
	}
	return raw, parsed, nil
}

// ExtractEmbedded runs ExtractPayload with the configured markers.
func (e *Extractor) ExtractEmbedded(page string) (string, *models.Record, error) {
	return ExtractPayload(page, e.sel.EmbeddedStart, e.sel.EmbeddedEnd)
}

// Properties returns the objects of the model's "properties" array. It
// returns nil if the array is absent or holds no objects.
func Properties(model *models.Record) []*models.Record {
	if model == nil {
		return nil
	}
	v, ok := model.Get("properties")
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []*models.Record
	for _, item := range arr {
		if rec, ok := item.(*models.Record); ok {
			out = append(out, rec)
		}
	}
	return out
}
