// Package analytics queries search-performance and traffic providers for a site.
// Provider failures are data, not errors, once they reach an audit result.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultDays is the reporting window used when none is configured.
	DefaultDays = 28

	dateLayout = "2006-01-02"

	SearchFailureMessage  = "Could not fetch Search Console data. Please ensure the service account email has been added as a user in Google Search Console."
	TrafficFailureMessage = "Could not fetch Google Analytics data. Please ensure the service account email has been added as a Viewer in the GA4 property settings."
)

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowEnding returns the window of the given number of days ending on now's date.
func WindowEnding(now time.Time, days int) Window {
	if days <= 0 {
		days = DefaultDays
	}

	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	return Window{Start: end.AddDate(0, 0, -days), End: end}
}

func (w Window) StartDate() string { return w.Start.Format(dateLayout) }

func (w Window) EndDate() string { return w.End.Format(dateLayout) }

func (w Window) String() string {
	return fmt.Sprintf("%s to %s", w.StartDate(), w.EndDate())
}

// SearchProvider reports query-level search statistics for a verified site property.
type SearchProvider interface {
	SearchPerformance(ctx context.Context, site string, window Window) (SearchReport, error)
}

// TrafficProvider reports session, user and pageview statistics for a property.
type TrafficProvider interface {
	Traffic(ctx context.Context, property string, window Window) (TrafficReport, error)
}

// SearchRow is one query or page line.
type SearchRow struct {
	Key         string  `json:"key"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// SearchSummary aggregates query rows. AvgCTR is a percentage.
type SearchSummary struct {
	TotalClicks      int64   `json:"total_clicks"`
	TotalImpressions int64   `json:"total_impressions"`
	AvgCTR           float64 `json:"avg_ctr"`
	AvgPosition      float64 `json:"avg_position"`
	DateRange        string  `json:"date_range"`
}

// SearchReport is the outcome of a search-performance query.
type SearchReport struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Summary SearchSummary `json:"summary"`
	Queries []SearchRow   `json:"queries"`
	Pages   []SearchRow   `json:"pages"`
}

// TrafficOverall holds site-wide totals. BounceRate is a percentage, AvgSessionDuration is in seconds.
type TrafficOverall struct {
	Sessions           int64   `json:"sessions"`
	Users              int64   `json:"users"`
	Pageviews          int64   `json:"pageviews"`
	BounceRate         float64 `json:"bounce_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
}

type TrafficPage struct {
	Page      string `json:"page"`
	Pageviews int64  `json:"pageviews"`
	Sessions  int64  `json:"sessions"`
}

type TrafficSource struct {
	Source   string `json:"source"`
	Sessions int64  `json:"sessions"`
}

// TrafficReport is the outcome of a traffic query. Overall is nil when the provider had no rows.
type TrafficReport struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	Overall   *TrafficOverall `json:"overall"`
	TopPages  []TrafficPage   `json:"top_pages"`
	Sources   []TrafficSource `json:"traffic_sources"`
	DateRange string          `json:"date_range"`
}

// SearchFailure builds the report recorded when search data is unavailable.
func SearchFailure(message string) SearchReport {
	return SearchReport{Success: false, Message: message, Queries: []SearchRow{}, Pages: []SearchRow{}}
}

// TrafficFailure builds the report recorded when traffic data is unavailable.
func TrafficFailure(message string) TrafficReport {
	return TrafficReport{Success: false, Message: message, TopPages: []TrafficPage{}, Sources: []TrafficSource{}}
}

// SummarizeSearch totals the query rows and wraps both row sets in a successful report.
func SummarizeSearch(queries, pages []SearchRow, window Window) SearchReport {
	summary := SearchSummary{DateRange: window.String()}

	positionSum := 0.0
	for _, row := range queries {
		summary.TotalClicks += row.Clicks
		summary.TotalImpressions += row.Impressions
		positionSum += row.Position
	}

	if summary.TotalImpressions > 0 {
		summary.AvgCTR = round(float64(summary.TotalClicks)/float64(summary.TotalImpressions)*100, 2)
	}

	if len(queries) > 0 {
		summary.AvgPosition = round(positionSum/float64(len(queries)), 1)
	}

	if queries == nil {
		queries = []SearchRow{}
	}
	if pages == nil {
		pages = []SearchRow{}
	}

	return SearchReport{Success: true, Summary: summary, Queries: queries, Pages: pages}
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))

	return math.Round(value*factor) / factor
}
