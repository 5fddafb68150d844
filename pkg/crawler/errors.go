package crawler

import "errors"

// Construction errors. New returns them wrapped; use errors.Is.
var (
	ErrInvalidConfig      = errors.New("invalid crawl configuration")
	ErrInvalidURL         = errors.New("invalid start url")
	ErrUnresolvableDomain = errors.New("domain does not resolve")
)

// Per-URL errors. They are handed to Observer.OnError and never returned from
// Run.
var (
	ErrRobotsDisallowed  = errors.New("blocked by robots.txt")
	ErrFetchFailure      = errors.New("fetch failed")
	ErrExtractionFailure = errors.New("extraction failed")
)
