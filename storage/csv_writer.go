package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"property-scraper/models"
)

// Columns returns the union of the records' keys in first-seen order.
func Columns(records []*models.Record) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range records {
		for _, k := range r.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// WriteCSV writes one row per record under a header of Columns(records).
// Missing keys and nulls become empty cells; nested values are written as
// compact JSON.
func WriteCSV(path string, records []*models.Record) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		return encodeCSV(w, Columns(records), records)
	})
	if err != nil {
		return fmt.Errorf("csv: write %q: %w", path, err)
	}
	return nil
}

func encodeCSV(w io.Writer, cols []string, records []*models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(cols))
	for i, r := range records {
		for j, c := range cols {
			v, _ := r.Get(c)
			cell, err := cellValue(v)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", i, c, err)
			}
			row[j] = cell
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	}

	b, err := models.EncodeJSON(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
