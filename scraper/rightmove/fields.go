package rightmove

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"property-scraper/config"
	"property-scraper/models"
	"property-scraper/scraper"
	"property-scraper/utils"
)

// Record keys, in the order they appear in every exported listing.
const (
	FieldPrice           = "price"
	FieldPriceQualifier  = "price_qualifier"
	FieldDisplayAddress  = "displayAddress"
	FieldSummary         = "summary"
	FieldPhoneNumber     = "phone_number"
	FieldPropertySubType = "propertySubType"
	FieldBedrooms        = "bedrooms"
	FieldBathrooms       = "bathrooms"
	FieldDisplayStatus   = "displayStatus"
	FieldAddedOrReduced  = "addedOrReduced"
)

// RecordFields lists every key a listing record carries.
var RecordFields = []string{
	FieldPrice, FieldPriceQualifier, FieldDisplayAddress, FieldSummary, FieldPhoneNumber,
	FieldPropertySubType, FieldBedrooms, FieldBathrooms, FieldDisplayStatus, FieldAddedOrReduced,
}

// Extractor turns listing cards into records.
type Extractor struct {
	sel    config.Selectors
	logger *utils.Logger
}

// NewExtractor creates an Extractor using the given structural markers.
func NewExtractor(sel config.Selectors, logger *utils.Logger) *Extractor {
	return &Extractor{sel: sel, logger: logger}
}

// ExtractListing builds the record for one listing card. A sub-element that
// is missing only nulls its own field. If the card as a whole cannot be read
// the result is an empty record with no keys at all.
func (e *Extractor) ExtractListing(card *goquery.Selection) (rec *models.Record) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("[extract] Listing unreadable, recording empty entry: %v", r)
			rec = models.NewRecord()
		}
	}()

	if card == nil || card.Length() == 0 {
		e.logger.Warn("[extract] Listing card missing, recording empty entry")
		return models.NewRecord()
	}

	rec = models.NewRecord()
	rec.Set(FieldPrice, nullable(e.text(card, e.sel.Price)))
	rec.Set(FieldPriceQualifier, nullable(e.text(card, e.sel.PriceQualifier)))
	rec.Set(FieldDisplayAddress, nullable(e.text(card, e.sel.Address)))
	rec.Set(FieldSummary, nullable(e.text(card, e.sel.Summary)))
	rec.Set(FieldPhoneNumber, nullable(e.text(card, e.sel.Phone)))

	spans := e.propertyInfo(card)
	rec.Set(FieldPropertySubType, nullable(at(spans, 0)))
	rec.Set(FieldBedrooms, nullable(at(spans, 1)))
	rec.Set(FieldBathrooms, nullable(at(spans, 2)))

	rec.Set(FieldDisplayStatus, nullable(e.text(card, e.sel.DisplayStatus)))
	rec.Set(FieldAddedOrReduced, nullable(e.text(card, e.sel.AddedOrReduced)))
	return rec
}

// text returns the visible text of the first match of selector inside card.
func (e *Extractor) text(card *goquery.Selection, selector string) (string, error) {
	el, err := first(card, selector)
	if err != nil {
		e.logger.Debug("[extract] %v", err)
		return "", err
	}
	return visibleText(el), nil
}

// propertyInfo returns the ordered short texts of the property-information
// block, or nil when the block is absent.
func (e *Extractor) propertyInfo(card *goquery.Selection) []string {
	info, err := first(card, e.sel.PropertyInfo)
	if err != nil {
		e.logger.Debug("[extract] %v", err)
		return nil
	}
	var spans []string
	info.Find(e.sel.PropertyInfoText).Each(func(_ int, s *goquery.Selection) {
		spans = append(spans, visibleText(s))
	})
	return spans
}

func first(card *goquery.Selection, selector string) (*goquery.Selection, error) {
	if selector == "" {
		return nil, fmt.Errorf("empty selector: %w", scraper.ErrElementNotFound)
	}
	el := card.Find(selector).First()
	if el.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", selector, scraper.ErrElementNotFound)
	}
	return el, nil
}

// at is bounds-checked positional access.
func at(spans []string, i int) (string, error) {
	if i < 0 || i >= len(spans) {
		return "", fmt.Errorf("position %d of %d: %w", i, len(spans), scraper.ErrElementNotFound)
	}
	return spans[i], nil
}

// nullable maps a failed lookup to nil so the key is still emitted as null.
func nullable(s string, err error) any {
	if err != nil {
		return nil
	}
	return s
}

// visibleText approximates rendered text: each line trimmed, blank lines dropped.
func visibleText(s *goquery.Selection) string {
	lines := strings.Split(s.Text(), "\n")
	kept := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}
