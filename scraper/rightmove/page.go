package rightmove

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"property-scraper/models"
)

// ScrapeLoaded extracts one record per listing container in doc. The caller
// must already have waited for the listings to render. Every container
// yields a record, even an empty one. A fault while enumerating is logged
// and the result is empty.
func (e *Extractor) ScrapeLoaded(doc *goquery.Document) (records []*models.Record) {
	records = make([]*models.Record, 0)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("[page] Listing enumeration failed: %v", r)
			records = make([]*models.Record, 0)
		}
	}()

	cards := doc.Find(e.sel.Listing)
	e.logger.Info("[page] Found %d properties", cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		records = append(records, e.ExtractListing(card))
	})
	return records
}

// ScrapeHTML parses a page snapshot and runs ScrapeLoaded over it.
func (e *Extractor) ScrapeHTML(html string) []*models.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Error("[page] Could not parse page snapshot: %v", err)
		return make([]*models.Record, 0)
	}
	return e.ScrapeLoaded(doc)
}
