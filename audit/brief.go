package audit

import (
	"fmt"
	"io"
	"strings"

	"seoaudit/internal/analytics"
)

const briefTopRows = 10

// Brief renders the findings as plain text, one labelled judgment per line.
// Labels follow the same thresholds as Score.
func Brief(result *Result) string {
	if result == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "WEBSITE: %s\n", result.URL)
	if result.GeneratedAt != "" {
		fmt.Fprintf(&b, "AUDIT DATE: %s\n", result.GeneratedAt)
	}

	b.WriteString("\nTECHNICAL INFRASTRUCTURE\n")
	fmt.Fprintf(&b, "- robots.txt: %s\n", presence(result.Technical.HasRobotsTxt, labelIssue))
	fmt.Fprintf(&b, "- XML sitemap: %s\n", presence(result.Technical.HasSitemap, labelIssue))
	if result.HasBlog {
		b.WriteString("- Blog: Found\n")
	} else {
		b.WriteString("- Blog: Not found\n")
	}

	for i, page := range result.Pages {
		fmt.Fprintf(&b, "\nPAGE %d: %s (%s)\n", i+1, page.Name, page.URL)
		writePage(&b, page)
	}

	if result.Search != nil {
		writeSearch(&b, result.Search)
	}
	if result.Traffic != nil {
		writeTraffic(&b, result.Traffic)
	}

	return b.String()
}

func writePage(w io.Writer, page PageRecord) {
	fmt.Fprintf(w, "- Title: %q (%d chars) - %s\n",
		page.Title, page.TitleLength, TitleLabel(page.TitleLength))
	fmt.Fprintf(w, "- Meta description: %q (%d chars) - %s\n",
		page.MetaDescription, page.MetaLength, MetaLabel(page.MetaLength))

	fmt.Fprintf(w, "- H1 tags: %d - %s", page.H1Count, HeadingLabel(page.H1Count))
	if len(page.H1Texts) > 0 {
		fmt.Fprintf(w, ": %s", strings.Join(page.H1Texts, " | "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "- Load time: %.2fs - %s\n", page.LoadTimeSeconds, LoadLabel(page.LoadTimeSeconds))
	fmt.Fprintf(w, "- Page size: %.2f KB\n", page.PageSizeKB)

	if len(page.SchemaTypes) > 0 {
		fmt.Fprintf(w, "- Schema markup: %s - %s\n", strings.Join(page.SchemaTypes, ", "), labelGood)
	} else {
		fmt.Fprintf(w, "- Schema markup: None - %s\n", labelIssue)
	}

	fmt.Fprintf(w, "- Canonical tag: %s\n", presence(page.Elements.HasCanonical, labelIssue))
	if page.Elements.RobotsMeta != "" {
		fmt.Fprintf(w, "- Robots meta: %s\n", page.Elements.RobotsMeta)
	} else {
		fmt.Fprintln(w, "- Robots meta: Not set")
	}
	if page.Elements.HasOpenGraph {
		fmt.Fprintln(w, "- OpenGraph tags: Complete")
	} else {
		fmt.Fprintf(w, "- OpenGraph tags: Incomplete - %s\n", labelNeedsWork)
	}
	fmt.Fprintf(w, "- Twitter card: %s\n", presence(page.Elements.HasTwitterCard, ""))
	fmt.Fprintf(w, "- JSON-LD: %s\n", presence(page.Elements.HasJSONLD, ""))
	fmt.Fprintf(w, "- Search Console verification tag: %s\n", presence(page.Elements.HasVerification, ""))
	fmt.Fprintf(w, "- Hreflang: %s\n", presence(page.Elements.HasHreflang, ""))

	fmt.Fprintf(w, "- Images: %d total, %d missing alt text", page.Resources.TotalImages, page.Resources.ImagesWithoutAlt)
	if page.Resources.ImagesWithoutAlt > 0 {
		fmt.Fprintf(w, " - %s", labelIssue)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "- External scripts: %d\n", page.Resources.ExternalScripts)
	fmt.Fprintf(w, "- Stylesheets: %d\n", page.Resources.Stylesheets)
	fmt.Fprintf(w, "- Links: %d\n", page.Resources.InternalLinks)
}

func writeSearch(w io.Writer, report *analytics.SearchReport) {
	if !report.Success {
		fmt.Fprintf(w, "\nSEARCH CONSOLE: not available (%s)\n", report.Message)
		return
	}

	summary := report.Summary
	fmt.Fprintf(w, "\nSEARCH CONSOLE (%s)\n", summary.DateRange)
	fmt.Fprintf(w, "- Clicks: %d, Impressions: %d, Avg CTR: %.2f%%, Avg position: %.1f\n",
		summary.TotalClicks, summary.TotalImpressions, summary.AvgCTR, summary.AvgPosition)

	if len(report.Queries) == 0 {
		return
	}

	fmt.Fprintln(w, "Top queries:")
	for _, row := range report.Queries[:min(len(report.Queries), briefTopRows)] {
		fmt.Fprintf(w, "- %s: %d clicks, %d impressions, position %.1f\n",
			row.Key, row.Clicks, row.Impressions, row.Position)
	}
}

func writeTraffic(w io.Writer, report *analytics.TrafficReport) {
	if !report.Success {
		fmt.Fprintf(w, "\nGOOGLE ANALYTICS: not available (%s)\n", report.Message)
		return
	}

	fmt.Fprintf(w, "\nGOOGLE ANALYTICS (%s)\n", report.DateRange)
	if overall := report.Overall; overall != nil {
		fmt.Fprintf(w, "- Sessions: %d, Users: %d, Pageviews: %d, Bounce rate: %.2f%%, Avg session: %.2fs\n",
			overall.Sessions, overall.Users, overall.Pageviews, overall.BounceRate, overall.AvgSessionDuration)
	} else {
		fmt.Fprintln(w, "- No traffic recorded")
	}

	if len(report.TopPages) > 0 {
		fmt.Fprintln(w, "Top pages:")
		for _, page := range report.TopPages {
			fmt.Fprintf(w, "- %s: %d pageviews, %d sessions\n", page.Page, page.Pageviews, page.Sessions)
		}
	}

	if len(report.Sources) > 0 {
		fmt.Fprintln(w, "Traffic sources:")
		for _, source := range report.Sources {
			fmt.Fprintf(w, "- %s: %d sessions\n", source.Source, source.Sessions)
		}
	}
}

func presence(ok bool, missingLabel string) string {
	if ok {
		return "Present"
	}
	if missingLabel == "" {
		return "Missing"
	}

	return "Missing - " + missingLabel
}
