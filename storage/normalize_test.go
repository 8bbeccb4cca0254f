package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"property-scraper/models"
	"property-scraper/utils"
)

func mustParse(t *testing.T, s string) *models.Record {
	t.Helper()
	v, err := models.ParseJSON([]byte(s))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", s, err)
	}
	return v.(*models.Record)
}

func TestFlatten(t *testing.T) {
	r := mustParse(t, `{"id":7,"location":{"latitude":51.5,"longitude":-0.1},"price":{"amount":300000,"displayPrices":[{"displayPrice":"£300,000"}]},"extra":{}}`)
	flat := Flatten(r)

	want := []string{"id", "location.latitude", "location.longitude", "price.amount", "price.displayPrices"}
	if got := flat.Keys(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("keys: got %v, want %v", got, want)
	}
	v, _ := flat.Get("price.displayPrices")
	cell, err := cellValue(v)
	if err != nil {
		t.Fatal(err)
	}
	if cell != `[{"displayPrice":"£300,000"}]` {
		t.Errorf("array cell: got %s", cell)
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	paths := testPaths(dir)
	normalized := filepath.Join(dir, "out", "normalized.csv")

	records := []*models.Record{
		mustParse(t, `{"id":1,"location":{"latitude":51.5}}`),
		mustParse(t, `{"id":2,"summary":"Flat","location":{"longitude":-0.1}}`),
		models.NewRecord(),
	}
	p := NewMultiFormatPersister(paths, utils.NewLoggerTo(&bytes.Buffer{}))
	if err := p.Persist(records); err != nil {
		t.Fatal(err)
	}

	n, err := Normalize(paths.JSON, normalized)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if n != len(records) {
		t.Errorf("rows: got %d, want %d", n, len(records))
	}

	rows := readCSV(t, normalized)
	if len(rows)-1 != len(records) {
		t.Fatalf("csv data rows: got %d, want %d", len(rows)-1, len(records))
	}
	header := strings.Join(rows[0], ",")
	if header != "id,location.latitude,summary,location.longitude" {
		t.Errorf("header: got %s", header)
	}
	if strings.Join(rows[2], "|") != "2||Flat|-0.1" {
		t.Errorf("row 2: got %v", rows[2])
	}
}

func TestNormalizeFlatRecordsKeepsEveryKey(t *testing.T) {
	dir := t.TempDir()
	paths := testPaths(dir)
	normalized := filepath.Join(dir, "normalized.csv")

	records := sampleRecords()
	p := NewMultiFormatPersister(paths, utils.NewLoggerTo(&bytes.Buffer{}))
	if err := p.Persist(records); err != nil {
		t.Fatal(err)
	}
	if _, err := Normalize(paths.JSON, normalized); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, normalized)
	cols := make(map[string]bool)
	for _, c := range rows[0] {
		cols[c] = true
	}
	for _, r := range records {
		for _, k := range r.Keys() {
			if !cols[k] {
				t.Errorf("column %q missing from normalized CSV", k)
			}
		}
	}
}

func TestNormalizeMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Normalize(filepath.Join(dir, "nope.json"), filepath.Join(dir, "x.csv")); err == nil {
		t.Error("expected error for missing JSON file")
	}
}

func TestWriteRawPayloadVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payloads", "payload-001.json")
	raw := `{"properties":[{"id":1}],  "note":"<b>ü</b>"}`
	if err := WriteRawPayload(path, raw); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != raw {
		t.Errorf("got %q, want %q", got, raw)
	}
}
