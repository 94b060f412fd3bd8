package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// fanOutConcurrency caps concurrent page fetches in GetAllPaged.
	fanOutConcurrency = 5

	// fanOutPageSize is the page size used for aggregate fetches.
	fanOutPageSize = 100
)

// GetAllPaged fetches every object of a filtered collection. An initial
// probe request learns the total, then pages are fetched concurrently with
// a cap of fanOutConcurrency. Any page failure fails the whole aggregate;
// items are returned in server order normalized by offset, not arrival.
func (c *HTTPClient) GetAllPaged(ctx context.Context, collection, filter string) ([]Object, error) {
	probe, err := c.List(ctx, collection, 0, 0, filter)
	if err != nil {
		return nil, err
	}

	pageCount := (probe.Total + fanOutPageSize - 1) / fanOutPageSize
	pages := make([][]Object, pageCount)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutConcurrency)
	for i := 0; i < pageCount; i++ {
		i := i
		g.Go(func() error {
			page, err := c.List(ctx, collection, fanOutPageSize, i*fanOutPageSize, filter)
			if err != nil {
				return err
			}
			pages[i] = page.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Object, 0, probe.Total)
	for _, page := range pages {
		items = append(items, page...)
	}
	return items, nil
}
