package process

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/benjaminestes/robots"
)

// Maximum size of robots.txt to parse (512KB, Google's limit)
const maxRobotsSize = 512 * 1024

// RobotsPolicy answers whether a URL may be fetched. The zero value (and a
// policy built from a robots.txt that could not be reached) allows everything.
type RobotsPolicy struct {
	rules   *robots.Robots
	denyAll bool
	url     string
}

func (p RobotsPolicy) Allowed(userAgent, rawURL string) bool {
	if p.denyAll {
		return false
	}
	if p.rules == nil {
		return true
	}
	return p.rules.Test(userAgent, rawURL)
}

// URL is the robots.txt location the policy was built from.
func (p RobotsPolicy) URL() string {
	return p.url
}

// ParseRobots builds a policy from a robots.txt response. 2xx is parsed,
// 401 and 403 disallow all, any other 4xx allows all and 5xx disallows all.
func ParseRobots(status int, body io.Reader) (RobotsPolicy, error) {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return RobotsPolicy{denyAll: true}, nil
	}
	r, err := robots.From(status, io.LimitReader(body, maxRobotsSize))
	if err != nil {
		return RobotsPolicy{}, err
	}
	return RobotsPolicy{rules: r}, nil
}

// FetchRobots fetches robots.txt for the origin of pageURL. It never fails:
// any problem reaching or parsing the file yields an allow-all policy.
func FetchRobots(ctx context.Context, client *http.Client, userAgent, pageURL string, log *slog.Logger) (policy RobotsPolicy) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("panic in robots.txt parsing, assuming allowed", slog.String("url", pageURL), slog.Any("panic", r))
			policy = RobotsPolicy{}
		}
	}()

	robotsURL, err := robots.Locate(pageURL)
	if err != nil {
		log.Warn("couldn't locate robots.txt, assuming allowed", slog.String("url", pageURL), slog.Any("err", err))
		return RobotsPolicy{}
	}

	status, body, err := getRobots(ctx, client, userAgent, robotsURL)
	if err != nil {
		log.Warn("failed to fetch robots.txt, assuming allowed", slog.String("url", robotsURL), slog.Any("err", err))
		return RobotsPolicy{url: robotsURL}
	}

	log.Debug("robots.txt response",
		slog.String("url", robotsURL),
		slog.Int("status_code", status),
		slog.Int("body_length", len(body)),
		slog.String("body_preview", string(body[:min(len(body), 200)])),
	)

	policy, err = ParseRobots(status, bytes.NewReader(body))
	if err != nil {
		log.Warn("failed to parse robots.txt, assuming allowed", slog.String("url", robotsURL), slog.Any("err", err))
		return RobotsPolicy{url: robotsURL}
	}
	policy.url = robotsURL
	return policy
}

func getRobots(ctx context.Context, client *http.Client, userAgent, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
