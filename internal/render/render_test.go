package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"seoaudit/audit"
	"seoaudit/internal/analytics"
	"seoaudit/internal/pipeline"
)

func sampleOutcome() *pipeline.Outcome {
	result := &audit.Result{
		ID:          "run-1",
		URL:         "https://example.com",
		GeneratedAt: "2026-10-19T09:30:00Z",
		Technical:   audit.TechnicalFindings{HasRobotsTxt: true},
		HasBlog:     true,
		Pages: []audit.PageRecord{
			{
				URL:             "https://example.com",
				Name:            "Homepage",
				Title:           "Widgets <Best> & Cheap",
				TitleLength:     22,
				MetaDescription: "No meta description",
				H1Count:         1,
				H1Texts:         []string{"Widgets"},
				LoadTimeSeconds: 1.25,
				PageSizeKB:      12.5,
				SchemaTypes:     []string{"Organization", "WebSite"},
				Resources:       audit.ResourceCounts{TotalImages: 4, ImagesWithoutAlt: 1},
			},
			{
				URL:             "https://example.com/about",
				Name:            "About",
				Title:           "About",
				TitleLength:     5,
				LoadTimeSeconds: 3.5,
				SchemaTypes:     []string{},
			},
		},
		Search: &analytics.SearchReport{
			Success: true,
			Summary: analytics.SearchSummary{TotalClicks: 12, TotalImpressions: 400, AvgCTR: 3, AvgPosition: 4.2, DateRange: "2026-09-21 to 2026-10-19"},
			Queries: []analytics.SearchRow{{Key: "widgets", Clicks: 12, Impressions: 400, Position: 4.2}},
			Pages:   []analytics.SearchRow{},
		},
	}
	failed := analytics.TrafficFailure(analytics.TrafficFailureMessage)
	result.Traffic = &failed
	result.Score = audit.Score(result)

	return &pipeline.Outcome{
		Result:          result,
		Band:            audit.BandFor(result.Score),
		Recommendations: "1. Add a meta description.\n",
		Notices:         []string{"The request could not be logged."},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: " TEXT ", want: FormatText},
		{in: "table", want: FormatTable},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestJSON(t *testing.T) {
	t.Parallel()

	outcome := sampleOutcome()

	pretty := JSON(outcome, true)
	compact := JSON(outcome, false)
	require.True(t, bytes.HasSuffix(pretty, []byte("\n")))
	require.True(t, bytes.HasSuffix(compact, []byte("\n")))

	var fromPretty, fromCompact map[string]any
	require.NoError(t, json.Unmarshal(pretty, &fromPretty))
	require.NoError(t, json.Unmarshal(compact, &fromCompact))
	require.Equal(t, fromPretty, fromCompact, "indentation changes formatting only")

	result := fromPretty["result"].(map[string]any)
	require.Equal(t, "https://example.com", result["url"])
	require.Equal(t, true, result["has_blog"])

	pages := result["pages"].([]any)
	home := pages[0].(map[string]any)
	require.Equal(t, float64(22), home["title_length"])
	require.Equal(t, 1.25, home["load_time"])
	require.Contains(t, home, "elements")
	require.Contains(t, home, "resources")

	band := fromPretty["band"].(map[string]any)
	require.Equal(t, outcome.Band.Label, band["label"])
}

func TestText(t *testing.T) {
	t.Parallel()

	outcome := sampleOutcome()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, outcome))

	out := buf.String()
	require.Contains(t, out, "PAGE 2: About (https://example.com/about)")
	require.Contains(t, out, "SEO SCORE: ")
	require.Contains(t, out, outcome.Band.Label)
	require.Contains(t, out, "RECOMMENDATIONS\n1. Add a meta description.\n")
	require.Contains(t, out, "Note: The request could not be logged.")
}

func TestTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleOutcome()))

	lines := strings.Split(buf.String(), "\n")
	require.Contains(t, lines[0], "Page")
	require.Contains(t, lines[0], "Alt missing")
	require.Contains(t, buf.String(), "Organization, WebSite")
	require.Contains(t, buf.String(), "1/4")
	require.Contains(t, buf.String(), "robots.txt: yes  sitemap: no  blog: yes")
}

func TestHTML(t *testing.T) {
	t.Parallel()

	outcome := sampleOutcome()

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, outcome, "Ada <Acme>"))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, outcome.Band.Color)
	require.Contains(t, out, "Prepared for Ada &lt;Acme&gt;")
	require.Contains(t, out, "Widgets &lt;Best&gt; &amp; Cheap")
	require.NotContains(t, out, "<Best>")
	require.Contains(t, out, `<span class="label-SLOW">SLOW</span>`)
	require.Contains(t, out, "Search Console Performance")
	require.Contains(t, out, "<td>widgets</td>")
	require.Contains(t, out, "service account")
	require.Contains(t, out, "1. Add a meta description.")
	require.Contains(t, out, "Page-by-Page Analysis")
}

func TestHTMLRejectsEmptyOutcome(t *testing.T) {
	t.Parallel()

	require.Error(t, HTML(&bytes.Buffer{}, nil, ""))
	require.Error(t, HTML(&bytes.Buffer{}, &pipeline.Outcome{}, ""))
}
