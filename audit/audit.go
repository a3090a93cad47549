// Package audit runs a page-level SEO audit of a website: the homepage plus up to
// three discovered pages, site-level checks, optional analytics and a score.
package audit

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"seoaudit/internal/analytics"
	"seoaudit/internal/discover"
	"seoaudit/internal/fetcher"
	"seoaudit/internal/limiter"
	"seoaudit/internal/parser"
	"seoaudit/internal/sitecheck"
	"seoaudit/internal/urlutil"
)

const (
	DefaultPageTimeout  = 10 * time.Second
	DefaultCheckTimeout = 5 * time.Second

	homepageName = "Homepage"

	searchNotConfigured  = "Search Console is not configured."
	trafficNotConfigured = "Google Analytics is not configured."
)

// Run audits opts.URL. A homepage failure aborts with ErrHomepageUnreachable and no result;
// every later failure only removes the affected finding.
// Pages are fetched one after another, in discovery order.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := opts.Clock
	if clock == nil {
		clock = limiter.NewClock()
	}

	base, err := urlutil.ParseRoot(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if opts.HTTPClient == nil {
		return nil, errHTTPClientRequired
	}

	return newRunner(opts, base, clock, logger).run(ctx)
}

type runner struct {
	opts    Options
	base    *url.URL
	clock   limiter.Timer
	logger  *zap.Logger
	pages   *fetcher.Fetcher
	checker *sitecheck.Checker
	started time.Time
	runID   string
}

func newRunner(opts Options, base *url.URL, clock limiter.Timer, logger *zap.Logger) *runner {
	pageTimeout := opts.PageTimeout
	if pageTimeout <= 0 {
		pageTimeout = DefaultPageTimeout
	}

	checkTimeout := opts.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = DefaultCheckTimeout
	}

	runID := uuid.NewString()
	logger = logger.With(zap.String("audit_id", runID), zap.String("url", base.String()))

	pages := fetcher.New(opts.HTTPClient, fetcher.Config{
		Timeout:   pageTimeout,
		UserAgent: opts.UserAgent,
		Limiter:   limiter.NewWithTimer(opts.Delay, clock),
		Clock:     clock,
	})

	probes := fetcher.New(opts.HTTPClient, fetcher.Config{
		Timeout:   checkTimeout,
		UserAgent: opts.UserAgent,
		Clock:     clock,
	})

	return &runner{
		opts:    opts,
		base:    base,
		clock:   clock,
		logger:  logger,
		pages:   pages,
		checker: sitecheck.New(probes, logger),
		started: clock.Now(),
		runID:   runID,
	}
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	home, err := r.pages.Fetch(ctx, r.base.String())
	if err != nil {
		r.logger.Error("homepage fetch failed", zap.Error(err))

		return nil, fmt.Errorf("%w: %w", ErrHomepageUnreachable, err)
	}

	homeParsed, err := parser.ParseHTML(home.Body)
	if err != nil {
		r.logger.Error("homepage parse failed", zap.Error(err))

		return nil, fmt.Errorf("%w: parse: %w", ErrHomepageUnreachable, err)
	}

	findings := r.checker.Check(ctx, r.base)

	result := &Result{
		ID:          r.runID,
		URL:         r.base.String(),
		GeneratedAt: r.started.UTC().Format(time.RFC3339),
		Technical: TechnicalFindings{
			HasRobotsTxt: findings.HasRobotsTxt,
			HasSitemap:   findings.HasSitemap,
		},
		Pages: []PageRecord{newPageRecord(home, homeParsed, homepageName)},
	}

	selection := discover.Select(r.base, homeParsed.Links)
	result.HasBlog = selection.HasBlog

	for _, link := range selection.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, ok := r.auditPage(ctx, link)
		if ok {
			result.Pages = append(result.Pages, record)
		}
	}

	window := analytics.WindowEnding(r.clock.Now(), r.opts.AnalyticsDays)
	result.Search = r.search(ctx, window)
	result.Traffic = r.traffic(ctx, window)
	result.Score = Score(result)

	r.logger.Info("audit finished",
		zap.Int("pages", len(result.Pages)),
		zap.Int("score", result.Score),
		zap.Duration("elapsed", limiter.Elapsed(r.clock, r.started)),
	)

	return result, nil
}

func (r *runner) auditPage(ctx context.Context, link string) (PageRecord, bool) {
	page, err := r.pages.Fetch(ctx, link)
	if err != nil {
		r.logger.Warn("skipping page", zap.String("page", link), zap.Error(err))

		return PageRecord{}, false
	}

	parsed, err := parser.ParseHTML(page.Body)
	if err != nil {
		r.logger.Warn("skipping unparsable page", zap.String("page", link), zap.Error(err))

		return PageRecord{}, false
	}

	r.logger.Debug("page audited", zap.String("page", link), zap.Int("status_code", page.StatusCode))

	return newPageRecord(page, parsed, discover.DisplayName(link)), true
}

func (r *runner) search(ctx context.Context, window analytics.Window) *analytics.SearchReport {
	if r.opts.SearchSite == "" {
		return nil
	}

	if r.opts.Search == nil {
		report := analytics.SearchFailure(searchNotConfigured)
		return &report
	}

	report, err := r.opts.Search.SearchPerformance(ctx, r.opts.SearchSite, window)
	if err != nil {
		r.logger.Warn("search analytics unavailable", zap.String("site", r.opts.SearchSite), zap.Error(err))
		report = analytics.SearchFailure(analytics.SearchFailureMessage)
	}

	return &report
}

func (r *runner) traffic(ctx context.Context, window analytics.Window) *analytics.TrafficReport {
	if r.opts.TrafficProperty == "" {
		return nil
	}

	if r.opts.Traffic == nil {
		report := analytics.TrafficFailure(trafficNotConfigured)
		return &report
	}

	report, err := r.opts.Traffic.Traffic(ctx, r.opts.TrafficProperty, window)
	if err != nil {
		r.logger.Warn("traffic analytics unavailable", zap.String("property", r.opts.TrafficProperty), zap.Error(err))
		report = analytics.TrafficFailure(analytics.TrafficFailureMessage)
	}

	return &report
}

func newPageRecord(page fetcher.Page, parsed parser.ParseResult, name string) PageRecord {
	headings := parsed.SEO.HeadingTexts
	if headings == nil {
		headings = []string{}
	}

	schemaTypes := parsed.SchemaTypes
	if schemaTypes == nil {
		schemaTypes = []string{}
	}

	return PageRecord{
		URL:                page.URL,
		Name:               name,
		HasTitle:           parsed.SEO.HasTitle,
		Title:              parsed.SEO.Title,
		TitleLength:        parsed.SEO.TitleLength,
		HasMetaDescription: parsed.SEO.HasDescription,
		MetaDescription:    parsed.SEO.Description,
		MetaLength:         parsed.SEO.DescriptionLength,
		H1Count:            parsed.SEO.HeadingCount,
		H1Texts:            headings,
		LoadTimeSeconds:    page.Elapsed.Seconds(),
		PageSizeKB:         round2(float64(page.Size) / 1024),
		SchemaTypes:        schemaTypes,
		Elements: PageElements{
			HasCanonical:    parsed.Elements.HasCanonical,
			RobotsMeta:      parsed.Elements.RobotsMeta,
			HasOpenGraph:    parsed.Elements.HasOpenGraph,
			HasTwitterCard:  parsed.Elements.HasTwitterCard,
			HasJSONLD:       parsed.Elements.HasJSONLD,
			HasVerification: parsed.Elements.HasVerification,
			HasHreflang:     parsed.Elements.HasHreflang,
		},
		Resources: ResourceCounts{
			TotalImages:      parsed.Resources.TotalImages,
			ImagesWithoutAlt: parsed.Resources.ImagesWithoutAlt,
			ExternalScripts:  parsed.Resources.ExternalScripts,
			Stylesheets:      parsed.Resources.Stylesheets,
			InternalLinks:    parsed.Resources.Links,
		},
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
