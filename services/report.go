package services

import (
	"fmt"
	"io"
	"strings"

	"property-scraper/models"
	"property-scraper/storage"
)

// ReportService summarises a finished run.
type ReportService struct {
	out   io.Writer
	color bool
}

// NewReportService prints to out, with ANSI colors when color is set.
func NewReportService(out io.Writer, color bool) *ReportService {
	return &ReportService{out: out, color: color}
}

func (s *ReportService) Generate(runID string, records []*models.Record, outcomes []models.JobOutcome) *models.RunReport {
	report := &models.RunReport{
		RunID:        runID,
		TotalURLs:    len(outcomes),
		TotalRecords: len(records),
	}

	for _, o := range outcomes {
		if o.Failed() {
			report.FailedURLs = append(report.FailedURLs, o)
		} else if o.State == models.StatePersisted {
			report.PersistedURL++
		}
	}

	for _, r := range records {
		if r.Len() == 0 {
			report.EmptyRecords++
		}
	}

	for _, col := range storage.Columns(records) {
		fc := models.FieldCoverage{Field: col}
		for _, r := range records {
			if v, ok := r.Get(col); ok && v != nil {
				fc.NonNull++
			}
		}
		report.Coverage = append(report.Coverage, fc)
	}
	return report
}

func (s *ReportService) paint(code, text string) string {
	if !s.color {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

func (s *ReportService) Print(r *models.RunReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	w := s.out

	fmt.Fprintf(w, "\n%s\n", s.paint("1;35", sep))
	fmt.Fprintf(w, "%s\n", s.paint("1;35", "  PROPERTY SCRAPE SUMMARY"))
	fmt.Fprintf(w, "%s\n\n", s.paint("1;35", sep))

	fmt.Fprintf(w, "%s\n", s.paint("1;33", "  Run"))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Run ID          : %s\n", r.RunID)
	fmt.Fprintf(w, "  URLs processed  : %s\n", s.paint("1", fmt.Sprint(r.TotalURLs)))
	fmt.Fprintf(w, "  URLs persisted  : %s\n", s.paint("1;32", fmt.Sprint(r.PersistedURL)))
	fmt.Fprintf(w, "  URLs failed     : %s\n", s.paint("1;31", fmt.Sprint(len(r.FailedURLs))))
	fmt.Fprintln(w)

	if len(r.FailedURLs) > 0 {
		fmt.Fprintf(w, "%s\n", s.paint("1;33", "  Failed URLs"))
		fmt.Fprintf(w, "  %s\n", thin)
		for i, o := range r.FailedURLs {
			fmt.Fprintf(w, "  %d. %s\n     %v\n", i+1, truncate(o.URL, 60), o.Err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", s.paint("1;33", "  Records"))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total records   : %s\n", s.paint("1", fmt.Sprint(r.TotalRecords)))
	fmt.Fprintf(w, "  Empty records   : %d\n", r.EmptyRecords)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", s.paint("1;33", "  Field Coverage"))
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Coverage) == 0 {
		fmt.Fprintf(w, "  No fields captured\n")
	}
	for _, fc := range r.Coverage {
		bar := ""
		if r.TotalRecords > 0 {
			bar = strings.Repeat("█", fc.NonNull*20/r.TotalRecords)
		}
		fmt.Fprintf(w, "  %-28s %-20s %d/%d\n", truncate(fc.Field, 28), bar, fc.NonNull, r.TotalRecords)
	}

	fmt.Fprintf(w, "\n%s\n\n", s.paint("1;35", sep))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
