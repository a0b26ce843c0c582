package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailure means every attempt of the fetch budget failed. Callers
	// treat it as "no data available".
	ErrFetchFailure = errors.New("fetch failed")
	// ErrNoData means the page was fetched but yielded no titled record.
	ErrNoData = errors.New("no job data extracted")
)

type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts failed: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusError is returned by fetchers for non-2xx responses.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// ExtractionError is a field-level failure. It is logged and absorbed at the
// adapter boundary, never returned to callers of ScrapeJob.
type ExtractionError struct {
	Site  Site
	Field string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: extract %s: %v", e.Site, e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
