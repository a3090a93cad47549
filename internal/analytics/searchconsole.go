package analytics

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/searchconsole/v1"
)

const searchRowLimit = 25

// SearchConsole reads search analytics from Google Search Console.
type SearchConsole struct {
	service *searchconsole.Service
}

// NewSearchConsole creates a read-only Search Console client.
func NewSearchConsole(ctx context.Context, opts ...option.ClientOption) (*SearchConsole, error) {
	opts = append([]option.ClientOption{option.WithScopes(searchconsole.WebmastersReadonlyScope)}, opts...)

	service, err := searchconsole.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create search console service: %w", err)
	}

	return &SearchConsole{service: service}, nil
}

// SearchPerformance fetches the top queries and top pages for site, which is a
// property URL such as "https://example.com/" or "sc-domain:example.com".
func (s *SearchConsole) SearchPerformance(ctx context.Context, site string, window Window) (SearchReport, error) {
	var queries, pages []SearchRow

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := s.query(groupCtx, site, window, "query")
		queries = rows

		return err
	})
	group.Go(func() error {
		rows, err := s.query(groupCtx, site, window, "page")
		pages = rows

		return err
	})

	if err := group.Wait(); err != nil {
		return SearchReport{}, err
	}

	return SummarizeSearch(queries, pages, window), nil
}

func (s *SearchConsole) query(ctx context.Context, site string, window Window, dimension string) ([]SearchRow, error) {
	request := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  window.StartDate(),
		EndDate:    window.EndDate(),
		Dimensions: []string{dimension},
		RowLimit:   searchRowLimit,
	}

	response, err := s.service.Searchanalytics.Query(site, request).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search analytics by %s: %w", dimension, err)
	}

	rows := make([]SearchRow, 0, len(response.Rows))
	for _, row := range response.Rows {
		if row == nil {
			continue
		}

		key := ""
		if len(row.Keys) > 0 {
			key = row.Keys[0]
		}

		rows = append(rows, SearchRow{
			Key:         key,
			Clicks:      int64(math.Round(row.Clicks)),
			Impressions: int64(math.Round(row.Impressions)),
			CTR:         row.Ctr,
			Position:    row.Position,
		})
	}

	return rows, nil
}
