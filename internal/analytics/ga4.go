package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const trafficRowLimit = 10

// GA4 reads traffic reports from the Google Analytics Data API.
type GA4 struct {
	service *analyticsdata.Service
}

// NewGA4 creates a read-only Analytics Data client.
func NewGA4(ctx context.Context, opts ...option.ClientOption) (*GA4, error) {
	opts = append([]option.ClientOption{option.WithScopes(analyticsdata.AnalyticsReadonlyScope)}, opts...)

	service, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create analytics data service: %w", err)
	}

	return &GA4{service: service}, nil
}

// PropertyName normalizes "123456789" to "properties/123456789".
func PropertyName(property string) string {
	property = strings.TrimSpace(property)
	if strings.HasPrefix(property, "properties/") {
		return property
	}

	return "properties/" + property
}

// Traffic fetches overall metrics, top pages and traffic sources.
func (g *GA4) Traffic(ctx context.Context, property string, window Window) (TrafficReport, error) {
	name := PropertyName(property)
	report := TrafficReport{Success: true, DateRange: window.String(), TopPages: []TrafficPage{}, Sources: []TrafficSource{}}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		overall, err := g.overall(groupCtx, name, window)
		report.Overall = overall

		return err
	})
	group.Go(func() error {
		pages, err := g.topPages(groupCtx, name, window)
		report.TopPages = pages

		return err
	})
	group.Go(func() error {
		sources, err := g.sources(groupCtx, name, window)
		report.Sources = sources

		return err
	})

	if err := group.Wait(); err != nil {
		return TrafficReport{}, err
	}

	return report, nil
}

func (g *GA4) overall(ctx context.Context, property string, window Window) (*TrafficOverall, error) {
	response, err := g.run(ctx, property, &analyticsdata.RunReportRequest{
		DateRanges: dateRanges(window),
		Metrics: metrics(
			"sessions", "totalUsers", "screenPageViews", "bounceRate", "averageSessionDuration",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("overall metrics: %w", err)
	}

	if len(response.Rows) == 0 {
		return nil, nil
	}

	values := metricValues(response.Rows[0])

	return &TrafficOverall{
		Sessions:           parseCount(values, 0),
		Users:              parseCount(values, 1),
		Pageviews:          parseCount(values, 2),
		BounceRate:         round(parseRatio(values, 3)*100, 2),
		AvgSessionDuration: round(parseRatio(values, 4), 2),
	}, nil
}

func (g *GA4) topPages(ctx context.Context, property string, window Window) ([]TrafficPage, error) {
	response, err := g.run(ctx, property, &analyticsdata.RunReportRequest{
		DateRanges: dateRanges(window),
		Dimensions: []*analyticsdata.Dimension{{Name: "pagePath"}},
		Metrics:    metrics("screenPageViews", "sessions"),
		Limit:      trafficRowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}

	pages := make([]TrafficPage, 0, len(response.Rows))
	for _, row := range response.Rows {
		values := metricValues(row)
		pages = append(pages, TrafficPage{
			Page:      dimensionValue(row),
			Pageviews: parseCount(values, 0),
			Sessions:  parseCount(values, 1),
		})
	}

	return pages, nil
}

func (g *GA4) sources(ctx context.Context, property string, window Window) ([]TrafficSource, error) {
	response, err := g.run(ctx, property, &analyticsdata.RunReportRequest{
		DateRanges: dateRanges(window),
		Dimensions: []*analyticsdata.Dimension{{Name: "sessionSource"}},
		Metrics:    metrics("sessions"),
		Limit:      trafficRowLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("traffic sources: %w", err)
	}

	sources := make([]TrafficSource, 0, len(response.Rows))
	for _, row := range response.Rows {
		sources = append(sources, TrafficSource{
			Source:   dimensionValue(row),
			Sessions: parseCount(metricValues(row), 0),
		})
	}

	return sources, nil
}

func (g *GA4) run(
	ctx context.Context,
	property string,
	request *analyticsdata.RunReportRequest,
) (*analyticsdata.RunReportResponse, error) {
	return g.service.Properties.RunReport(property, request).Context(ctx).Do()
}

func dateRanges(window Window) []*analyticsdata.DateRange {
	return []*analyticsdata.DateRange{{StartDate: window.StartDate(), EndDate: window.EndDate()}}
}

func metrics(names ...string) []*analyticsdata.Metric {
	result := make([]*analyticsdata.Metric, 0, len(names))
	for _, name := range names {
		result = append(result, &analyticsdata.Metric{Name: name})
	}

	return result
}

func metricValues(row *analyticsdata.Row) []string {
	if row == nil {
		return nil
	}

	values := make([]string, 0, len(row.MetricValues))
	for _, value := range row.MetricValues {
		if value == nil {
			values = append(values, "")
			continue
		}
		values = append(values, value.Value)
	}

	return values
}

func dimensionValue(row *analyticsdata.Row) string {
	if row == nil || len(row.DimensionValues) == 0 || row.DimensionValues[0] == nil {
		return ""
	}

	return row.DimensionValues[0].Value
}

func parseCount(values []string, index int) int64 {
	if index >= len(values) {
		return 0
	}

	count, err := strconv.ParseInt(strings.TrimSpace(values[index]), 10, 64)
	if err != nil {
		return int64(parseRatio(values, index))
	}

	return count
}

func parseRatio(values []string, index int) float64 {
	if index >= len(values) {
		return 0
	}

	ratio, err := strconv.ParseFloat(strings.TrimSpace(values[index]), 64)
	if err != nil {
		return 0
	}

	return ratio
}
