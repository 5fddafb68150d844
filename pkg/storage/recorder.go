package storage

import (
	"context"
	"log/slog"

	"github.com/devraulu/politecrawl/pkg/crawler"
)

// Recorder is a crawler.Observer that saves each visited page. Save errors
// are logged and counted; they never stop the crawl.
type Recorder struct {
	store  Storage
	domain string
	log    *slog.Logger

	Saved  int
	Failed int
}

func NewRecorder(store Storage, domain string, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{store: store, domain: domain, log: log}
}

func (r *Recorder) OnPageVisited(ctx context.Context, p crawler.Page) {
	err := r.store.SavePage(ctx, Page{
		URL:          p.URL,
		Domain:       r.domain,
		Timestamp:    p.FetchedAt,
		LastModified: p.LastModified,
		Title:        p.Title,
		Content:      p.Text,
		StatusCode:   p.StatusCode,
		Outlinks:     p.Outlinks,
	})
	if err != nil {
		r.Failed++
		r.log.Error("failed to save page", slog.String("url", p.URL), slog.Any("err", err))
		return
	}
	r.Saved++
}

func (r *Recorder) OnError(context.Context, string, error) {}
