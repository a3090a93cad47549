package audit

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"seoaudit/internal/analytics"
	"seoaudit/internal/limiter"
)

// Options configures a single audit run.
// PageTimeout bounds each page fetch, CheckTimeout each robots/sitemap probe.
// Delay spaces out consecutive page fetches; zero disables pacing.
// Analytics are queried only when both the provider and its identifier are set.
type Options struct {
	URL          string
	UserAgent    string
	PageTimeout  time.Duration
	CheckTimeout time.Duration
	Delay        time.Duration
	HTTPClient   *http.Client
	Clock        limiter.Timer
	Logger       *zap.Logger

	Search          analytics.SearchProvider
	SearchSite      string
	Traffic         analytics.TrafficProvider
	TrafficProperty string
	AnalyticsDays   int
}

// Result is the outcome of one audit. Pages[0] is always the homepage.
type Result struct {
	ID          string                   `json:"id"`
	URL         string                   `json:"url"`
	GeneratedAt string                   `json:"generated_at"`
	Technical   TechnicalFindings        `json:"technical"`
	HasBlog     bool                     `json:"has_blog"`
	Pages       []PageRecord             `json:"pages"`
	Search      *analytics.SearchReport  `json:"search,omitempty"`
	Traffic     *analytics.TrafficReport `json:"traffic,omitempty"`
	Score       int                      `json:"score"`
}

// Homepage returns the first page record, or false when there is none.
func (r *Result) Homepage() (PageRecord, bool) {
	if r == nil || len(r.Pages) == 0 {
		return PageRecord{}, false
	}

	return r.Pages[0], true
}

// TechnicalFindings reports site-level infrastructure.
type TechnicalFindings struct {
	HasRobotsTxt bool `json:"has_robots_txt"`
	HasSitemap   bool `json:"has_sitemap"`
}

// PageRecord describes one audited page.
// Title and MetaDescription hold sentinels when the tag is absent; the lengths are then zero.
type PageRecord struct {
	URL                string         `json:"url"`
	Name               string         `json:"name"`
	HasTitle           bool           `json:"has_title"`
	Title              string         `json:"title"`
	TitleLength        int            `json:"title_length"`
	HasMetaDescription bool           `json:"has_meta_description"`
	MetaDescription    string         `json:"meta_description"`
	MetaLength         int            `json:"meta_length"`
	H1Count            int            `json:"h1_count"`
	H1Texts            []string       `json:"h1_texts"`
	LoadTimeSeconds    float64        `json:"load_time"`
	PageSizeKB         float64        `json:"page_size_kb"`
	SchemaTypes        []string       `json:"schema_types"`
	Elements           PageElements   `json:"elements"`
	Resources          ResourceCounts `json:"resources"`
}

// PageElements holds head-level presence checks. RobotsMeta is empty when the tag is missing.
type PageElements struct {
	HasCanonical    bool   `json:"has_canonical"`
	RobotsMeta      string `json:"robots_meta"`
	HasOpenGraph    bool   `json:"has_opengraph"`
	HasTwitterCard  bool   `json:"has_twitter_card"`
	HasJSONLD       bool   `json:"has_json_ld"`
	HasVerification bool   `json:"has_verification"`
	HasHreflang     bool   `json:"has_hreflang"`
}

type ResourceCounts struct {
	TotalImages      int `json:"total_images"`
	ImagesWithoutAlt int `json:"images_without_alt"`
	ExternalScripts  int `json:"external_scripts"`
	Stylesheets      int `json:"stylesheets"`
	InternalLinks    int `json:"internal_links"`
}
