package frontier

import (
	"log/slog"
)

// Frontier is the FIFO queue of a single crawl together with its visited set.
// A URL is accepted at most once: it is refused while it sits in the queue and
// forever after it has been visited. It is owned by one crawl loop and is not
// safe for concurrent use.
type Frontier struct {
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
	order   []string
	log     *slog.Logger
}

func NewFrontier(log *slog.Logger, seeds ...string) *Frontier {
	if log == nil {
		log = slog.Default()
	}
	f := &Frontier{
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
		log:     log,
	}
	for _, s := range seeds {
		f.Push(s)
	}
	return f
}

// Push appends url to the tail and reports whether it was accepted.
func (f *Frontier) Push(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}

	f.queued[url] = struct{}{}
	f.queue = append(f.queue, url)
	f.log.Debug("frontier push", slog.String("url", url), slog.Int("queue_len", len(f.queue)))
	return true
}

// Pop removes and returns the head of the queue.
func (f *Frontier) Pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}

	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.queued, url)
	return url, true
}

// MarkVisited records url as spent. It returns false if it already was.
func (f *Frontier) MarkVisited(url string) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	f.order = append(f.order, url)
	return true
}

func (f *Frontier) IsVisited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Seen reports whether url is queued or visited.
func (f *Frontier) Seen(url string) bool {
	if _, ok := f.queued[url]; ok {
		return true
	}
	return f.IsVisited(url)
}

// Len is the number of queued URLs.
func (f *Frontier) Len() int {
	return len(f.queue)
}

func (f *Frontier) VisitedCount() int {
	return len(f.order)
}

// Visited returns the visited URLs in visit order.
func (f *Frontier) Visited() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}
