package models

import "time"

// JobState is where a single source URL is in its processing.
type JobState int

const (
	StatePending JobState = iota
	StateLoading
	StateConsentHandled
	StateScraping
	StatePersisted
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateConsentHandled:
		return "consent-handled"
	case StateScraping:
		return "scraping"
	case StatePersisted:
		return "persisted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// JobOutcome records what happened to one source URL.
type JobOutcome struct {
	URL      string
	State    JobState
	Records  int
	Err      error
	Duration time.Duration
}

// Failed reports whether the URL ended in StateFailed.
func (o JobOutcome) Failed() bool { return o.State == StateFailed }

// FieldCoverage counts how many records carry a non-null value for Field.
type FieldCoverage struct {
	Field   string
	NonNull int
}

// RunReport summarises a whole run for the terminal.
type RunReport struct {
	RunID        string
	TotalURLs    int
	PersistedURL int
	FailedURLs   []JobOutcome
	TotalRecords int
	EmptyRecords int
	Coverage     []FieldCoverage
}
