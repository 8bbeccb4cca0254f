package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"property-scraper/models"
)

// WriteJSON writes records as a 4-space indented JSON array. Non-ASCII and
// HTML characters are written literally.
func WriteJSON(path string, records []*models.Record) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(nonNil(records))
	})
	if err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}

type envelope struct {
	Properties []*models.Record `json:"properties"`
}

// WriteCompactJSON writes {"properties":[...]} on a single line.
func WriteCompactJSON(path string, records []*models.Record) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(envelope{Properties: nonNil(records)})
	})
	if err != nil {
		return fmt.Errorf("compact json: write %q: %w", path, err)
	}
	return nil
}

// WriteRawPayload stores an extracted payload exactly as given.
func WriteRawPayload(path, raw string) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, raw)
		return err
	})
	if err != nil {
		return fmt.Errorf("payload: write %q: %w", path, err)
	}
	return nil
}

func nonNil(records []*models.Record) []*models.Record {
	if records == nil {
		return []*models.Record{}
	}
	return records
}
