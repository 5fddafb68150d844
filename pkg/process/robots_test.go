package process

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAgent = "TestBot/1.0"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseRobots_Rules(t *testing.T) {
	robotsTxt := `
User-agent: *
Disallow: /admin/
Disallow: /private/
`
	policy, err := ParseRobots(http.StatusOK, strings.NewReader(robotsTxt))
	require.NoError(t, err)

	tests := []struct {
		url     string
		allowed bool
	}{
		{"http://example.com/", true},
		{"http://example.com/index.html", true},
		{"http://example.com/admin/", false},
		{"http://example.com/admin/users", false},
		{"http://example.com/private/data", false},
		{"http://example.com/public/page", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.allowed, policy.Allowed(testAgent, tt.url))
		})
	}
}

func TestParseRobots_StatusSemantics(t *testing.T) {
	notFound, err := ParseRobots(http.StatusNotFound, strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, notFound.Allowed(testAgent, "http://example.com/anything"))

	unavailable, err := ParseRobots(http.StatusServiceUnavailable, strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, unavailable.Allowed(testAgent, "http://example.com/anything"))
}

func TestParseRobots_AccessDeniedDisallowsAll(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			policy, err := ParseRobots(status, strings.NewReader("User-agent: *\nAllow: /\n"))
			require.NoError(t, err)
			assert.False(t, policy.Allowed(testAgent, "http://example.com/"))
		})
	}
}

func TestRobotsPolicy_ZeroValueAllowsAll(t *testing.T) {
	var p RobotsPolicy
	assert.True(t, p.Allowed(testAgent, "http://example.com/admin"))
}

func TestFetchRobots(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		gotAgent = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, "User-agent: *\nDisallow: /\n")
	}))
	defer srv.Close()

	policy := FetchRobots(context.Background(), srv.Client(), testAgent, srv.URL+"/some/page", quietLogger())

	assert.Equal(t, testAgent, gotAgent)
	assert.Equal(t, srv.URL+"/robots.txt", policy.URL())
	assert.False(t, policy.Allowed(testAgent, srv.URL+"/"))
	assert.False(t, policy.Allowed(testAgent, srv.URL+"/some/page"))
}

func TestFetchRobots_UnreachableAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := &http.Client{Timeout: time.Second}
	policy := FetchRobots(context.Background(), client, testAgent, addr+"/", quietLogger())

	assert.True(t, policy.Allowed(testAgent, addr+"/anything"))
}

func TestFetchRobots_MissingFileAllowsAll(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	policy := FetchRobots(context.Background(), srv.Client(), testAgent, srv.URL+"/", quietLogger())

	assert.True(t, policy.Allowed(testAgent, srv.URL+"/anything"))
}
