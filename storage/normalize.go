package storage

import (
	"fmt"
	"io"
	"os"

	"property-scraper/models"
)

// Flatten lifts nested objects into dot-joined keys ("location.latitude").
// Arrays are left as values. An empty nested object contributes no keys.
func Flatten(r *models.Record) *models.Record {
	out := models.NewRecord()
	flattenInto(out, "", r)
	return out
}

func flattenInto(out *models.Record, prefix string, r *models.Record) {
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(*models.Record); ok {
			flattenInto(out, key, nested)
			continue
		}
		out.Set(key, v)
	}
}

// WriteNormalizedCSV flattens every record and writes them as CSV.
func WriteNormalizedCSV(path string, records []*models.Record) error {
	flat := make([]*models.Record, len(records))
	for i, r := range records {
		flat[i] = Flatten(r)
	}
	err := writeFileAtomic(path, func(w io.Writer) error {
		return encodeCSV(w, Columns(flat), flat)
	})
	if err != nil {
		return fmt.Errorf("normalized csv: write %q: %w", path, err)
	}
	return nil
}

// Normalize re-reads the JSON records file at jsonPath and writes its
// flattened form to csvPath. It returns the number of rows written.
func Normalize(jsonPath, csvPath string) (int, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("normalize: read %q: %w", jsonPath, err)
	}
	records, err := models.ParseRecords(raw)
	if err != nil {
		return 0, fmt.Errorf("normalize: parse %q: %w", jsonPath, err)
	}
	if err := WriteNormalizedCSV(csvPath, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
