package crawler

import (
	"time"
)

const (
	DefaultUserAgent    = "politecrawl/1.0"
	DefaultFetchTimeout = 10 * time.Second

	// RobotsAgent is the agent robots.txt rules are evaluated for. The
	// configured UserAgent is only sent as a request header.
	RobotsAgent = "*"
)

// Config is fixed once New returns.
type Config struct {
	StartURL string
	// MaxPages bounds the number of URLs dequeued, whether or not their
	// fetch succeeds.
	MaxPages int
	// Delay is slept between iterations regardless of their outcome.
	Delay        time.Duration
	UserAgent    string
	FetchTimeout time.Duration
}

// PageRecord maps a fetched URL to its cleaned body text. It marshals to the
// flat JSON object consumed by indexing.
type PageRecord map[string]string

// Page is reported to observers for every successfully extracted URL.
type Page struct {
	URL          string
	Title        string
	Text         string
	StatusCode   int
	Outlinks     []string
	Queued       int
	FetchedAt    time.Time
	LastModified *time.Time
}

type Stats struct {
	StartTime      time.Time
	EndTime        time.Time
	PagesVisited   int
	PagesProcessed int
	PagesErrored   int
	PagesBlocked   int
}

func (s *Stats) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

func (s *Stats) PagesPerSecond() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(s.PagesProcessed) / elapsed
}
