package scraper

import "fmt"

// FetchError is returned when a listing page answers with a non-2xx status
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch URL: %d %s", e.StatusCode, e.Status)
}

// ExtractionError is returned when no VIN can be determined for a page
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return e.Reason
}
