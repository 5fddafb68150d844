package storage

import (
	"context"
	"time"
)

type Page struct {
	URL          string
	Domain       string
	Timestamp    time.Time
	LastModified *time.Time
	Title        string
	Content      string
	StatusCode   int
	Outlinks     []string
}

// Storage persists pages as the crawl visits them.
type Storage interface {
	SavePage(ctx context.Context, p Page) error
	// PageRecord returns url -> content for every stored page of domain.
	PageRecord(ctx context.Context, domain string) (map[string]string, error)
	Close() error
}
