package storage

import "property-scraper/models"

// RecordWriter is the interface any mirror of the record set must satisfy.
// Write receives the complete current snapshot, not a delta.
type RecordWriter interface {
	Write(records []*models.Record) error
	Close() error
}
