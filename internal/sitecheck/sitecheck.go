package sitecheck

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seoaudit/internal/fetcher"
	"seoaudit/internal/urlutil"
)

const (
	minRobotsLength = 10
	sitemapSniffLen = 100
)

// Findings reports site-level infrastructure.
type Findings struct {
	HasRobotsTxt bool `json:"has_robots_txt"`
	HasSitemap   bool `json:"has_sitemap"`
}

// Checker probes /robots.txt and /sitemap.xml on the origin of a site.
type Checker struct {
	fetch  *fetcher.Fetcher
	logger *zap.Logger
}

// New creates a Checker. The fetcher should carry the short probe timeout.
func New(fetch *fetcher.Fetcher, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{fetch: fetch, logger: logger}
}

// Check issues both probes independently. A failed probe only turns its own flag off;
// Check never returns an error.
func (c *Checker) Check(ctx context.Context, base *url.URL) Findings {
	origin := urlutil.Origin(base)
	findings := Findings{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		findings.HasRobotsTxt = c.probe(groupCtx, origin+"/robots.txt", isRobotsTxt)

		return nil
	})
	group.Go(func() error {
		findings.HasSitemap = c.probe(groupCtx, origin+"/sitemap.xml", isSitemap)

		return nil
	})
	_ = group.Wait()

	return findings
}

func (c *Checker) probe(ctx context.Context, target string, accept func(string) bool) bool {
	page, err := c.fetch.Get(ctx, target)
	if err != nil {
		c.logger.Debug("infrastructure probe failed", zap.String("url", target), zap.Error(err))

		return false
	}

	if page.StatusCode != http.StatusOK {
		c.logger.Debug("infrastructure probe missing", zap.String("url", target), zap.Int("status_code", page.StatusCode))

		return false
	}

	return accept(page.Body)
}

func isRobotsTxt(body string) bool {
	return utf8.RuneCountInString(body) > minRobotsLength
}

func isSitemap(body string) bool {
	head := body
	if utf8.RuneCountInString(head) > sitemapSniffLen {
		head = string([]rune(head)[:sitemapSniffLen])
	}

	return strings.Contains(strings.ToLower(head), "xml")
}
