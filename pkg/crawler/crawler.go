package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"net/url"
	"time"

	frontier "github.com/devraulu/politecrawl/pkg"
	"github.com/devraulu/politecrawl/pkg/process"
)

// Resolver is the DNS pre-flight check. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// RobotsPolicy decides whether a URL may be fetched.
type RobotsPolicy interface {
	Allowed(userAgent, rawURL string) bool
}

// Crawler is a single-use, single-origin breadth-first crawler. Build a new
// one per crawl.
type Crawler struct {
	cfg      Config
	startURL string
	host     string

	client   *http.Client
	fetcher  Fetcher
	resolver Resolver
	robots   RobotsPolicy
	observer Observer
	log      *slog.Logger

	frontier *frontier.Frontier
	pages    PageRecord
	stats    Stats
}

type Option func(*Crawler)

// WithHTTPClient sets the client used for robots.txt and, unless WithFetcher
// is given, for pages.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		c.client = client
	}
}

func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

func WithResolver(r Resolver) Option {
	return func(c *Crawler) {
		c.resolver = r
	}
}

// WithObserver replaces the default LogObserver. Combine with Observers to
// keep logging.
func WithObserver(o Observer) Option {
	return func(c *Crawler) {
		c.observer = o
	}
}

// WithRobotsPolicy skips the robots.txt fetch and uses p instead.
func WithRobotsPolicy(p RobotsPolicy) Option {
	return func(c *Crawler) {
		c.robots = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) {
		c.log = l
	}
}

// New validates cfg, checks that the start host resolves and loads its
// robots.txt. No page is fetched.
func New(ctx context.Context, cfg Config, opts ...Option) (*Crawler, error) {
	if cfg.MaxPages <= 0 {
		return nil, fmt.Errorf("%w: max pages must be positive, got %d", ErrInvalidConfig, cfg.MaxPages)
	}
	if cfg.Delay < 0 {
		return nil, fmt.Errorf("%w: delay must be non-negative, got %s", ErrInvalidConfig, cfg.Delay)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	start, err := process.Normalize(cfg.StartURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q must include a scheme and host (e.g. https://example.com): %v", ErrInvalidURL, cfg.StartURL, err)
	}

	c := &Crawler{
		cfg:      cfg,
		startURL: start,
		host:     process.Host(start),
		resolver: net.DefaultResolver,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(c.client, cfg.UserAgent)
	}
	if c.observer == nil {
		c.observer = NewLogObserver(c.log)
	}

	u, _ := url.Parse(start)
	if _, err := c.resolver.LookupHost(ctx, u.Hostname()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvableDomain, u.Hostname(), err)
	}

	if c.robots == nil {
		c.robots = process.FetchRobots(ctx, c.client, cfg.UserAgent, start, c.log)
	}

	c.frontier = frontier.NewFrontier(c.log, start)
	c.pages = make(PageRecord)
	return c, nil
}

// Run drains the frontier until it is empty or MaxPages URLs have been
// visited, and returns the pages collected. Per-URL failures go to the
// observer; Run itself cannot fail. A cancelled ctx stops the loop early.
func (c *Crawler) Run(ctx context.Context) PageRecord {
	if c.stats.StartTime.IsZero() {
		c.stats.StartTime = time.Now()
	}

	c.log.Info("starting crawl",
		slog.String("start_url", c.startURL),
		slog.String("domain", c.host),
		slog.Int("max_pages", c.cfg.MaxPages),
		slog.Duration("delay", c.cfg.Delay),
	)

	for c.hasNext() {
		if ctx.Err() != nil {
			break
		}

		current, _ := c.frontier.Pop()
		if !c.frontier.MarkVisited(current) {
			continue
		}
		c.stats.PagesVisited++

		c.log.Info("crawling",
			slog.String("url", current),
			slog.Int("visited", c.frontier.VisitedCount()),
			slog.Int("max_pages", c.cfg.MaxPages),
		)

		c.visit(ctx, current)

		if !c.hasNext() {
			break
		}
		if err := sleep(ctx, c.cfg.Delay); err != nil {
			break
		}
	}

	if ctx.Err() != nil {
		c.log.Warn("crawl interrupted", slog.Any("err", ctx.Err()), slog.Int("pending", c.frontier.Len()))
	}

	c.stats.EndTime = time.Now()
	c.log.Info("crawl complete",
		slog.Int("visited", c.stats.PagesVisited),
		slog.Int("processed", c.stats.PagesProcessed),
		slog.Int("errored", c.stats.PagesErrored),
		slog.Int("blocked", c.stats.PagesBlocked),
		slog.Int("pending", c.frontier.Len()),
		slog.Duration("elapsed", c.stats.Elapsed()),
		slog.Float64("pages_per_sec", c.stats.PagesPerSecond()),
	)

	return maps.Clone(c.pages)
}

func (c *Crawler) hasNext() bool {
	return c.frontier.Len() > 0 && c.frontier.VisitedCount() < c.cfg.MaxPages
}

func (c *Crawler) visit(ctx context.Context, current string) {
	if !c.robots.Allowed(RobotsAgent, current) {
		c.stats.PagesBlocked++
		c.observer.OnError(ctx, current, fmt.Errorf("%w: %s", ErrRobotsDisallowed, current))
		return
	}

	resp, err := c.fetcher.Fetch(ctx, current)
	if err != nil {
		c.stats.PagesErrored++
		c.observer.OnError(ctx, current, fmt.Errorf("%w: %w", ErrFetchFailure, err))
		return
	}

	page, err := c.extract(current, resp)
	if err != nil {
		c.stats.PagesErrored++
		c.observer.OnError(ctx, current, fmt.Errorf("%w: %w", ErrExtractionFailure, err))
		return
	}

	c.pages[current] = page.Text
	c.stats.PagesProcessed++
	page.Queued = c.enqueue(page.Outlinks)

	c.observer.OnPageVisited(ctx, *page)
}

var errNotHTML = errors.New("response is not an html document")

func (c *Crawler) extract(current string, resp *Response) (page *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = nil, fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	if !isHTML(resp) {
		return nil, errNotHTML
	}

	parsed, err := process.ParsePage(bytes.NewReader(resp.Body), current)
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:          current,
		Title:        parsed.Title,
		Text:         process.CleanText(parsed.Text),
		StatusCode:   resp.StatusCode,
		Outlinks:     parsed.Outlinks,
		FetchedAt:    time.Now(),
		LastModified: lastModified(resp),
	}, nil
}

// enqueue pushes same-host links that are neither visited nor queued and
// returns how many were accepted.
func (c *Crawler) enqueue(links []string) int {
	queued := 0
	for _, link := range links {
		if process.Host(link) != c.host {
			continue
		}
		if c.frontier.Push(link) {
			queued++
		}
	}
	return queued
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StartURL is the normalized start URL.
func (c *Crawler) StartURL() string {
	return c.startURL
}

// Visited returns the spent URLs in visit order.
func (c *Crawler) Visited() []string {
	return c.frontier.Visited()
}

// Pending is the number of URLs still queued.
func (c *Crawler) Pending() int {
	return c.frontier.Len()
}

func (c *Crawler) Stats() Stats {
	return c.stats
}
