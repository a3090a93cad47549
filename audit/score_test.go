package audit_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seoaudit/audit"
	"seoaudit/internal/analytics"
)

func scenarioResult() *audit.Result {
	return &audit.Result{
		Technical: audit.TechnicalFindings{HasRobotsTxt: true, HasSitemap: true},
		Pages: []audit.PageRecord{{
			Name:            "Homepage",
			Title:           "Buy Widgets Online | Acme",
			TitleLength:     27,
			MetaLength:      140,
			H1Count:         1,
			LoadTimeSeconds: 1.2,
			SchemaTypes:     []string{"Product"},
		}},
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*audit.Result)
		want   int
	}{
		{name: "scenario", mutate: func(*audit.Result) {}, want: 40},
		{name: "ideal title", mutate: func(r *audit.Result) { r.Pages[0].TitleLength = 55 }, want: 50},
		{name: "acceptable title lower edge", mutate: func(r *audit.Result) { r.Pages[0].TitleLength = 30 }, want: 45},
		{name: "acceptable title upper edge", mutate: func(r *audit.Result) { r.Pages[0].TitleLength = 70 }, want: 45},
		{name: "title too long", mutate: func(r *audit.Result) { r.Pages[0].TitleLength = 71 }, want: 40},
		{name: "acceptable meta", mutate: func(r *audit.Result) { r.Pages[0].MetaLength = 80 }, want: 35},
		{name: "meta too long", mutate: func(r *audit.Result) { r.Pages[0].MetaLength = 181 }, want: 30},
		{name: "two h1", mutate: func(r *audit.Result) { r.Pages[0].H1Count = 2 }, want: 35},
		{name: "load under three seconds", mutate: func(r *audit.Result) { r.Pages[0].LoadTimeSeconds = 2.5 }, want: 38},
		{name: "slow load", mutate: func(r *audit.Result) { r.Pages[0].LoadTimeSeconds = 3 }, want: 35},
		{name: "no schema", mutate: func(r *audit.Result) { r.Pages[0].SchemaTypes = nil }, want: 30},
		{name: "no robots", mutate: func(r *audit.Result) { r.Technical.HasRobotsTxt = false }, want: 35},
		{
			name: "element bonuses",
			mutate: func(r *audit.Result) {
				r.Pages[0].Elements = audit.PageElements{HasCanonical: true, HasOpenGraph: true, HasVerification: true}
			},
			want: 55,
		},
		{
			name: "alt coverage is truncated",
			mutate: func(r *audit.Result) {
				r.Pages[0].Resources = audit.ResourceCounts{TotalImages: 3, ImagesWithoutAlt: 1}
			},
			want: 43,
		},
		{
			name: "full alt coverage",
			mutate: func(r *audit.Result) {
				r.Pages[0].Resources = audit.ResourceCounts{TotalImages: 4}
			},
			want: 45,
		},
		{
			name: "analytics connected",
			mutate: func(r *audit.Result) {
				r.Search = &analytics.SearchReport{Success: true}
				r.Traffic = &analytics.TrafficReport{Success: true}
			},
			want: 60,
		},
		{
			name: "analytics failed",
			mutate: func(r *audit.Result) {
				failed := analytics.SearchFailure("nope")
				r.Search = &failed
			},
			want: 40,
		},
		{
			name: "no pages leaves technical points",
			mutate: func(r *audit.Result) {
				r.Pages = nil
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := scenarioResult()
			tt.mutate(result)
			require.Equal(t, tt.want, audit.Score(result))
		})
	}
}

func TestScoreNil(t *testing.T) {
	t.Parallel()

	require.Zero(t, audit.Score(nil))
}

func TestScoreStaysInRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))

	for range 500 {
		total := rng.IntN(20)
		result := &audit.Result{
			Technical: audit.TechnicalFindings{HasRobotsTxt: rng.IntN(2) == 0, HasSitemap: rng.IntN(2) == 0},
			Pages: []audit.PageRecord{{
				TitleLength:     rng.IntN(200),
				MetaLength:      rng.IntN(400),
				H1Count:         rng.IntN(4),
				LoadTimeSeconds: rng.Float64() * 10,
				Elements: audit.PageElements{
					HasCanonical:    rng.IntN(2) == 0,
					HasOpenGraph:    rng.IntN(2) == 0,
					HasVerification: rng.IntN(2) == 0,
				},
				Resources: audit.ResourceCounts{TotalImages: total, ImagesWithoutAlt: rng.IntN(total + 1)},
			}},
			Search:  &analytics.SearchReport{Success: rng.IntN(2) == 0},
			Traffic: &analytics.TrafficReport{Success: rng.IntN(2) == 0},
		}
		if rng.IntN(2) == 0 {
			result.Pages[0].SchemaTypes = []string{"Organization"}
		}

		score := audit.Score(result)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 100)
	}
}

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		label string
		color string
	}{
		{score: 100, label: "Excellent", color: "#10b981"},
		{score: 80, label: "Excellent", color: "#10b981"},
		{score: 79, label: "Good", color: "#f59e0b"},
		{score: 60, label: "Good", color: "#f59e0b"},
		{score: 59, label: "Needs Improvement", color: "#f97316"},
		{score: 40, label: "Needs Improvement", color: "#f97316"},
		{score: 39, label: "Critical Issues", color: "#ef4444"},
		{score: 0, label: "Critical Issues", color: "#ef4444"},
	}

	for _, tt := range tests {
		band := audit.BandFor(tt.score)
		require.Equal(t, tt.label, band.Label, tt.score)
		require.Equal(t, tt.color, band.Color, tt.score)
	}
}

func TestBrief(t *testing.T) {
	t.Parallel()

	result := scenarioResult()
	result.URL = fixtureBaseURL
	result.Pages[0].URL = fixtureBaseURL
	result.Pages[0].H1Texts = []string{"Widgets for every workshop"}
	result.Pages[0].Resources = audit.ResourceCounts{TotalImages: 2, ImagesWithoutAlt: 1}
	result.Search = &analytics.SearchReport{
		Success: true,
		Summary: analytics.SearchSummary{TotalClicks: 12, TotalImpressions: 400, AvgCTR: 3, AvgPosition: 4.2, DateRange: "a to b"},
		Queries: []analytics.SearchRow{{Key: "widgets", Clicks: 12, Impressions: 400, Position: 4.2}},
	}
	failed := analytics.TrafficFailure(analytics.TrafficFailureMessage)
	result.Traffic = &failed

	brief := audit.Brief(result)

	for _, want := range []string{
		"WEBSITE: https://example.com",
		"- robots.txt: Present",
		"- Blog: Not found",
		"PAGE 1: Homepage (https://example.com)",
		`- Title: "Buy Widgets Online | Acme" (27 chars) - ISSUE`,
		"(140 chars) - GOOD",
		"- H1 tags: 1 - GOOD: Widgets for every workshop",
		"- Load time: 1.20s - GOOD",
		"- Schema markup: Product - GOOD",
		"- Canonical tag: Missing - ISSUE",
		"- OpenGraph tags: Incomplete - NEEDS WORK",
		"- Images: 2 total, 1 missing alt text - ISSUE",
		"SEARCH CONSOLE (a to b)",
		"- widgets: 12 clicks, 400 impressions, position 4.2",
		"GOOGLE ANALYTICS: not available",
	} {
		require.Contains(t, brief, want)
	}

	require.NotContains(t, brief, "SLOW")
	require.True(t, strings.HasSuffix(brief, "\n"))
}

func TestBriefLabelsSlowPages(t *testing.T) {
	t.Parallel()

	result := scenarioResult()
	result.Pages[0].LoadTimeSeconds = 4.5
	result.Pages[0].H1Count = 0

	brief := audit.Brief(result)
	require.Contains(t, brief, "- Load time: 4.50s - SLOW")
	require.Contains(t, brief, "- H1 tags: 0 - ISSUE")
}
