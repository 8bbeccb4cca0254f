package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"property-scraper/models"
)

func TestBuildInsertPlaceholders(t *testing.T) {
	runID := uuid.MustParse("6f1c1d9e-3c1a-4b8e-9f3e-0c6a7f1d2b3c")
	batch := []*models.Record{
		rec("price", "£1"),
		models.NewRecord(),
	}

	query, args, err := buildInsert(runID, 50, batch)
	if err != nil {
		t.Fatalf("buildInsert: %v", err)
	}
	if !strings.HasSuffix(query, "VALUES ($1,$2,$3::jsonb),($4,$5,$6::jsonb)") {
		t.Errorf("query: got %s", query)
	}
	if len(args) != 6 {
		t.Fatalf("args: got %d, want 6", len(args))
	}
	if args[0] != runID.String() || args[1] != 50 || args[2] != `{"price":"£1"}` {
		t.Errorf("first row args: got %v", args[:3])
	}
	if args[4] != 51 || args[5] != "{}" {
		t.Errorf("second row args: got %v", args[3:])
	}
}
