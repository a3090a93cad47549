package audit_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seoaudit/internal/analytics"
)

const fixtureBaseURL = "https://example.com"

var fixtureTime = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

func readFixture(t *testing.T, parts ...string) string {
	t.Helper()

	path := filepath.Join(append([]string{"..", "testdata"}, parts...)...)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read fixture: %s", path)

	return string(b)
}

type route struct {
	status int
	body   string
	err    error
}

// siteClient serves routes by path and records every requested path.
type siteClient struct {
	mu     sync.Mutex
	routes map[string]route
	paths  []string
}

func newSiteClient(routes map[string]route) *siteClient {
	return &siteClient{routes: routes}
}

func (s *siteClient) client() *http.Client {
	return &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		s.mu.Lock()
		s.paths = append(s.paths, req.URL.Path)
		s.mu.Unlock()

		r, ok := s.routes[req.URL.Path]
		if !ok {
			r = route{status: http.StatusNotFound, body: "not found"}
		}
		if r.err != nil {
			return nil, r.err
		}

		return &http.Response{
			StatusCode: r.status,
			Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
			Body:       io.NopCloser(strings.NewReader(r.body)),
		}, nil
	})}
}

func (s *siteClient) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.paths...)
}

func fixtureRoutes(t *testing.T) map[string]route {
	t.Helper()

	return map[string]route{
		"/":            {status: http.StatusOK, body: readFixture(t, "pages", "home.html")},
		"/robots.txt":  {status: http.StatusOK, body: "User-agent: *\nDisallow:\n"},
		"/sitemap.xml": {status: http.StatusOK, body: `<?xml version="1.0" encoding="UTF-8"?><urlset></urlset>`},
		"/about-us":    {status: http.StatusOK, body: readFixture(t, "pages", "about-us.html")},
		"/contact":     {status: http.StatusInternalServerError, body: "boom"},
		"/blog/post-1": {status: http.StatusOK, body: readFixture(t, "pages", "post-1.html")},
	}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func (c fixedClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// manualClock only moves when advance is called.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *manualClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type stubSearch struct {
	mu     sync.Mutex
	calls  int
	report analytics.SearchReport
	err    error
}

func (s *stubSearch) SearchPerformance(_ context.Context, _ string, window analytics.Window) (analytics.SearchReport, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return analytics.SearchReport{}, s.err
	}

	return analytics.SummarizeSearch(s.report.Queries, s.report.Pages, window), nil
}

type stubTraffic struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubTraffic) Traffic(_ context.Context, _ string, window analytics.Window) (analytics.TrafficReport, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.err != nil {
		return analytics.TrafficReport{}, s.err
	}

	return analytics.TrafficReport{
		Success:   true,
		DateRange: window.String(),
		Overall:   &analytics.TrafficOverall{Sessions: 10, Users: 8, Pageviews: 30},
	}, nil
}
