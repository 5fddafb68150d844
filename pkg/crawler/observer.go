package crawler

import (
	"context"
	"errors"
	"log/slog"
)

// Observer is told about every dequeued URL, synchronously from the crawl
// loop. Exactly one of the two methods is called per visited URL.
type Observer interface {
	OnPageVisited(ctx context.Context, page Page)
	OnError(ctx context.Context, url string, err error)
}

// LogObserver reports crawl progress through a slog.Logger.
type LogObserver struct {
	log *slog.Logger
}

func NewLogObserver(log *slog.Logger) *LogObserver {
	if log == nil {
		log = slog.Default()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnPageVisited(ctx context.Context, page Page) {
	o.log.InfoContext(ctx, "crawl success",
		slog.String("url", page.URL),
		slog.String("title", page.Title),
		slog.Int("text_len", len(page.Text)),
		slog.Int("outlinks", len(page.Outlinks)),
		slog.Int("queued", page.Queued),
	)
}

func (o *LogObserver) OnError(ctx context.Context, url string, err error) {
	if errors.Is(err, ErrRobotsDisallowed) {
		o.log.WarnContext(ctx, "blocked by robots.txt", slog.String("url", url))
		return
	}
	o.log.ErrorContext(ctx, "crawl failed", slog.String("url", url), slog.Any("err", err))
}

type multiObserver []Observer

// Observers fans events out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	m := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) OnPageVisited(ctx context.Context, page Page) {
	for _, o := range m {
		o.OnPageVisited(ctx, page)
	}
}

func (m multiObserver) OnError(ctx context.Context, url string, err error) {
	for _, o := range m {
		o.OnError(ctx, url, err)
	}
}
