package services

import (
	"context"
	"fmt"
	"time"

	"property-scraper/models"
	"property-scraper/scraper"
	"property-scraper/scraper/rightmove"
	"property-scraper/utils"
)

// Source turns one URL into records.
type Source interface {
	Scrape(ctx context.Context, url string, state rightmove.StateFunc) ([]*models.Record, error)
}

// Persister saves a snapshot of every record gathered so far.
type Persister interface {
	Persist(records []*models.Record) error
}

// Runner processes URLs one at a time, saving after each of them.
type Runner struct {
	source    Source
	persister Persister
	logger    *utils.Logger
}

func NewRunner(source Source, persister Persister, logger *utils.Logger) *Runner {
	return &Runner{source: source, persister: persister, logger: logger}
}

// Run scrapes every URL in order and returns the accumulated records and one
// outcome per URL. A failing URL is recorded and the run moves on. The
// snapshot is persisted after every URL and once more at the end; only the
// final persist's error is returned.
//
// If ctx is cancelled, the URLs not yet started are marked failed.
func (r *Runner) Run(ctx context.Context, urls []string) ([]*models.Record, []models.JobOutcome, error) {
	records := make([]*models.Record, 0)
	outcomes := make([]models.JobOutcome, 0, len(urls))

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("[runner] Run interrupted, skipping %d remaining URLs", len(urls)-i)
			for _, rest := range urls[i:] {
				outcomes = append(outcomes, models.JobOutcome{URL: rest, State: models.StateFailed, Err: err})
			}
			break
		}

		r.logger.Info("[runner] (%d/%d) %s", i+1, len(urls), url)
		outcome := r.runOne(ctx, url, &records)
		outcomes = append(outcomes, outcome)

		if outcome.Failed() {
			r.logger.Error("[runner] %s failed after %v: %v", url, outcome.Duration.Round(time.Millisecond), outcome.Err)
		} else {
			r.logger.Info("[runner] %s done: %d records in %v (total %d)",
				url, outcome.Records, outcome.Duration.Round(time.Millisecond), len(records))
		}
	}

	if err := r.persister.Persist(snapshot(records)); err != nil {
		return records, outcomes, fmt.Errorf("final persist: %w", err)
	}
	r.logger.Info("[runner] Finished %d URLs, %d records", len(urls), len(records))
	return records, outcomes, nil
}

func (r *Runner) runOne(ctx context.Context, url string, records *[]*models.Record) models.JobOutcome {
	start := time.Now()
	outcome := models.JobOutcome{URL: url, State: models.StatePending}

	recs, err := r.scrape(ctx, url, func(s models.JobState) {
		outcome.State = s
		r.logger.Debug("[runner] %s -> %s", url, s)
	})
	if err != nil {
		outcome.State = models.StateFailed
		outcome.Err = err
	} else {
		*records = append(*records, recs...)
		outcome.Records = len(recs)
	}

	if perr := r.persister.Persist(snapshot(*records)); perr != nil {
		r.logger.Error("[runner] Saving progress after %s failed: %v", url, perr)
		if outcome.Err == nil {
			outcome.State = models.StateFailed
			outcome.Err = fmt.Errorf("persist: %w", perr)
		}
	} else if outcome.Err == nil {
		outcome.State = models.StatePersisted
	}

	outcome.Duration = time.Since(start)
	return outcome
}

// scrape calls the source, turning a panic into an error for this URL only.
func (r *Runner) scrape(ctx context.Context, url string, state rightmove.StateFunc) (recs []*models.Record, err error) {
	defer func() {
		if p := recover(); p != nil {
			recs = nil
			err = fmt.Errorf("%w: panic: %v", scraper.ErrDriverFault, p)
		}
	}()
	return r.source.Scrape(ctx, url, state)
}

// snapshot caps capacity so a persister can never append into the runner's list.
func snapshot(records []*models.Record) []*models.Record {
	return records[:len(records):len(records)]
}
