// Package pipeline serves one audit request end to end:
// the audit itself, the lead record and the recommendations.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"seoaudit/audit"
	"seoaudit/internal/cache"
	"seoaudit/internal/leads"
	"seoaudit/internal/limiter"
	"seoaudit/internal/recommend"
)

const (
	noticeLeadNotRecorded   = "The request could not be logged."
	noticeRecommendDisabled = "AI recommendations are not configured."
	noticeRecommendFailed   = "AI recommendations could not be generated."
)

// Request is what a person submits.
type Request struct {
	URL             string `json:"url"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	SearchSite      string `json:"gsc_site"`
	TrafficProperty string `json:"ga4_property"`
	Recommendations bool   `json:"recommendations"`
}

// Outcome is a finished request. Notices list collaborators that failed without aborting it.
type Outcome struct {
	Result          *audit.Result `json:"result"`
	Band            audit.Band    `json:"band"`
	Recommendations string        `json:"recommendations,omitempty"`
	Notices         []string      `json:"notices"`
	// Cached reports that Result was reused from an earlier request.
	Cached bool `json:"-"`
}

// Pipeline holds the collaborators shared by every request.
type Pipeline struct {
	base      audit.Options
	generator recommend.Generator
	leads     leads.Recorder
	logger    *zap.Logger
	results   *cache.Cache[*audit.Result]
	resultTTL time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResultCache reuses audit results for ttl. Leads and recommendations still run for every request.
func WithResultCache(ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.resultTTL = ttl
	}
}

// New builds a Pipeline. base carries everything except the per-request URL and analytics identifiers.
// A nil generator disables recommendations and a nil recorder discards leads.
func New(
	base audit.Options,
	generator recommend.Generator,
	recorder leads.Recorder,
	logger *zap.Logger,
	opts ...Option,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = leads.Nop{}
	}
	if base.Clock == nil {
		base.Clock = limiter.NewClock()
	}
	base.Logger = logger

	p := &Pipeline{base: base, generator: generator, leads: recorder, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	if p.resultTTL > 0 {
		p.results = cache.New[*audit.Result](p.resultTTL, base.Clock)
	}

	return p
}

// Run audits the requested site. Only audit errors are returned; nothing is recorded for a failed audit.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	result, cached, err := p.audit(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		Result:  result,
		Band:    audit.BandFor(result.Score),
		Notices: []string{},
		Cached:  cached,
	}

	lead := leads.NewLead(p.base.Clock.Now(), leads.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
	}, result.URL, req.SearchSite, req.TrafficProperty)

	if err := p.leads.Record(ctx, lead); err != nil {
		p.logger.Warn("lead not recorded", zap.String("audit_id", result.ID), zap.Error(err))
		outcome.Notices = append(outcome.Notices, noticeLeadNotRecorded)
	}

	if req.Recommendations {
		p.recommend(ctx, outcome)
	}

	return outcome, nil
}

func (p *Pipeline) audit(ctx context.Context, req Request) (*audit.Result, bool, error) {
	key := resultKey(req)
	if p.results != nil {
		if result, ok := p.results.Get(key); ok {
			return result, true, nil
		}
	}

	opts := p.base
	opts.URL = req.URL
	opts.SearchSite = req.SearchSite
	opts.TrafficProperty = req.TrafficProperty

	result, err := audit.Run(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if p.results != nil {
		p.results.Set(key, result)
	}

	return result, false, nil
}

func resultKey(req Request) string {
	return strings.Join([]string{
		strings.ToLower(strings.TrimSpace(req.URL)),
		strings.TrimSpace(req.SearchSite),
		strings.TrimSpace(req.TrafficProperty),
	}, "\x00")
}

func (p *Pipeline) recommend(ctx context.Context, outcome *Outcome) {
	if p.generator == nil {
		outcome.Notices = append(outcome.Notices, noticeRecommendDisabled)
		return
	}

	text, err := p.generator.Recommend(ctx, audit.Brief(outcome.Result))
	switch {
	case errors.Is(err, recommend.ErrNotConfigured):
		outcome.Notices = append(outcome.Notices, noticeRecommendDisabled)
	case err != nil:
		p.logger.Warn("recommendations unavailable", zap.String("audit_id", outcome.Result.ID), zap.Error(err))
		outcome.Notices = append(outcome.Notices, noticeRecommendFailed)
	default:
		outcome.Recommendations = text
	}
}
