package storage

import (
	"errors"
	"fmt"

	"property-scraper/models"
	"property-scraper/utils"
)

// Paths names the three artifacts rewritten on every Persist call.
type Paths struct {
	JSON        string
	CSV         string
	CompactJSON string
}

// MultiFormatPersister rewrites every artifact from the same record snapshot.
// It never modifies the records it is given.
type MultiFormatPersister struct {
	paths   Paths
	mirrors []RecordWriter
	logger  *utils.Logger
}

// NewMultiFormatPersister creates a persister for paths. Mirrors, if any,
// receive the same snapshot after the files are written.
func NewMultiFormatPersister(paths Paths, logger *utils.Logger, mirrors ...RecordWriter) *MultiFormatPersister {
	return &MultiFormatPersister{paths: paths, mirrors: mirrors, logger: logger}
}

// Persist writes records to every sink. Each sink is attempted even if an
// earlier one fails; the returned error joins all failures.
func (p *MultiFormatPersister) Persist(records []*models.Record) error {
	var errs []error

	if err := WriteJSON(p.paths.JSON, records); err != nil {
		errs = append(errs, err)
	} else {
		p.logger.Debug("[persist] Data saved to %s", p.paths.JSON)
	}

	if err := WriteCSV(p.paths.CSV, records); err != nil {
		errs = append(errs, err)
	} else {
		p.logger.Debug("[persist] Data saved to %s", p.paths.CSV)
	}

	if err := WriteCompactJSON(p.paths.CompactJSON, records); err != nil {
		errs = append(errs, err)
	} else {
		p.logger.Debug("[persist] Data saved to %s", p.paths.CompactJSON)
	}

	for _, m := range p.mirrors {
		if err := m.Write(records); err != nil {
			errs = append(errs, fmt.Errorf("mirror: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	p.logger.Info("[persist] %d records saved (%s, %s, %s)",
		len(records), p.paths.JSON, p.paths.CSV, p.paths.CompactJSON)
	return nil
}

// Close releases any mirrors.
func (p *MultiFormatPersister) Close() error {
	var errs []error
	for _, m := range p.mirrors {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
