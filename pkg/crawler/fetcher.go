package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Maximum response body read per page (10MB).
const maxBodySize = 10 * 1024 * 1024

// Response is a successful (2xx) page fetch.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher performs a single GET. Implementations return *StatusError for
// non-2xx responses and follow redirects transparently.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPFetcher is the net/http Fetcher. The client's timeout bounds each
// request.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "text/html")
	if f.userAgent != "" {
		req.Header.Add("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func isHTML(resp *Response) bool {
	if header := resp.Header.Get("Content-Type"); header != "" {
		header = strings.ToLower(header)
		return strings.Contains(header, "text/html") || strings.Contains(header, "application/xhtml+xml")
	}
	return strings.HasPrefix(http.DetectContentType(resp.Body), "text/html")
}

func lastModified(resp *Response) *time.Time {
	lm := resp.Header.Get("Last-Modified")
	if lm == "" {
		return nil
	}
	t, err := http.ParseTime(lm)
	if err != nil {
		return nil
	}
	return &t
}
