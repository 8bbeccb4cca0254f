package rightmove

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"property-scraper/config"
	"property-scraper/models"
	"property-scraper/scraper"
	"property-scraper/scraper/browser"
	"property-scraper/storage"
	"property-scraper/utils"
)

// StateFunc is told when a URL moves to a new processing state.
type StateFunc func(models.JobState)

// Timeouts bound the blocking browser steps.
type Timeouts struct {
	PageLoad    time.Duration
	Consent     time.Duration
	ListingWait time.Duration
}

// BrowserSource scrapes listing cards from a rendered results page.
type BrowserSource struct {
	driver    browser.Driver
	extractor *Extractor
	sel       config.Selectors
	timeouts  Timeouts
	logger    *utils.Logger
}

// NewBrowserSource creates a BrowserSource.
func NewBrowserSource(driver browser.Driver, extractor *Extractor, sel config.Selectors, t Timeouts, logger *utils.Logger) *BrowserSource {
	return &BrowserSource{driver: driver, extractor: extractor, sel: sel, timeouts: t, logger: logger}
}

// Scrape opens a browser for pageURL, scrapes it and always releases the
// browser before returning.
func (s *BrowserSource) Scrape(ctx context.Context, pageURL string, state StateFunc) ([]*models.Record, error) {
	state(models.StateLoading)

	sess, err := s.driver.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: open browser: %v", scraper.ErrDriverFault, err)
	}
	defer func() {
		sess.Close()
		s.logger.Debug("[browser] Session closed for %s", pageURL)
	}()

	if err := sess.Navigate(ctx, pageURL, s.timeouts.PageLoad); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", scraper.ErrDriverFault, err)
		}
		s.logger.Warn("[browser] Page load exceeded %v, stopping it and using the partial DOM", s.timeouts.PageLoad)
		if err := sess.StopLoading(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", scraper.ErrDriverFault, err)
		}
	}
	s.logger.Info("[browser] Opened URL: %s", pageURL)

	s.acceptConsent(ctx, sess)
	state(models.StateConsentHandled)

	state(models.StateScraping)
	if err := sess.WaitPresent(ctx, s.sel.Listing, s.timeouts.ListingWait); err != nil {
		s.logger.Warn("[browser] Listings did not appear within %v: %v", s.timeouts.ListingWait, err)
	}

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrDriverFault, err)
	}
	return s.extractor.ScrapeHTML(html), nil
}

// acceptConsent dismisses the cookie banner if it shows up in time. Any
// failure is logged and ignored.
func (s *BrowserSource) acceptConsent(ctx context.Context, sess browser.Session) {
	s.logger.Debug("[consent] Checking for cookie popup")
	if err := sess.WaitPresent(ctx, s.sel.ConsentBanner, s.timeouts.Consent); err != nil {
		s.logger.Info("[consent] No cookie popup found: %v", err)
		return
	}
	if err := sess.Click(ctx, s.sel.ConsentAccept, s.timeouts.Consent); err != nil {
		s.logger.Warn("[consent] Failed to accept cookie popup: %v", err)
		return
	}
	s.logger.Info("[consent] Cookie popup accepted")
}

// EmbeddedSource reads the portal's script-embedded JSON model over HTTP.
type EmbeddedSource struct {
	fetcher    *Fetcher
	extractor  *Extractor
	payloadDir string
	logger     *utils.Logger
	seq        int
}

// NewEmbeddedSource creates an EmbeddedSource writing per-page payload
// artifacts under payloadDir.
func NewEmbeddedSource(fetcher *Fetcher, extractor *Extractor, payloadDir string, logger *utils.Logger) *EmbeddedSource {
	return &EmbeddedSource{fetcher: fetcher, extractor: extractor, payloadDir: payloadDir, logger: logger}
}

// Scrape returns the objects of the page's "properties" array. The raw
// payload is saved verbatim, and the properties are also saved as their own
// flattened CSV.
func (s *EmbeddedSource) Scrape(ctx context.Context, pageURL string, state StateFunc) ([]*models.Record, error) {
	s.seq++
	base := filepath.Join(s.payloadDir, fmt.Sprintf("payload-%03d", s.seq))

	state(models.StateLoading)
	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[embedded] Page source fetched: %s", pageURL)

	state(models.StateScraping)
	raw, model, err := s.extractor.ExtractEmbedded(page)
	if raw != "" {
		if werr := storage.WriteRawPayload(base+".json", raw); werr != nil {
			s.logger.Error("[embedded] %v", werr)
		} else {
			s.logger.Info("[embedded] Payload saved to %s.json", base)
		}
	}
	if err != nil {
		return nil, err
	}

	props := Properties(model)
	if len(props) == 0 {
		s.logger.Warn("[embedded] No 'properties' found in the payload of %s", pageURL)
		return make([]*models.Record, 0), nil
	}

	if err := storage.WriteNormalizedCSV(base+".csv", props); err != nil {
		s.logger.Error("[embedded] %v", err)
	} else {
		s.logger.Info("[embedded] %d properties saved to %s.csv", len(props), base)
	}
	return props, nil
}
