// Package scraper holds what the portal-specific scrapers share.
package scraper

import "errors"

// Fault classes. Wrap with fmt.Errorf("...: %w", ErrX) and test with errors.Is.
var (
	// ErrElementNotFound means a structural marker matched nothing.
	ErrElementNotFound = errors.New("element not found")
	// ErrMarkerNotFound means an embedded-payload start or end marker is missing.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrMalformedPayload means the embedded payload is not valid JSON.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrFetchFailed covers network errors and non-2xx responses.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrDriverFault covers browser navigation and script failures.
	ErrDriverFault = errors.New("driver fault")
)
