package bing

import (
	"context"
	"sync"
)

// BatchResult pairs a query with its lookup outcome.
type BatchResult struct {
	Query  string
	Result *Result
	Err    error
}

// TranslateMany looks up every query with at most concurrency lookups in
// flight. Results are returned in input order; a failed lookup does not
// stop the others.
func (c *Client) TranslateMany(ctx context.Context, queries []string, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(queries))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, q := range queries {
		results[i].Query = q
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i].Err = ctx.Err()
				return
			}

			results[i].Result, results[i].Err = c.Translate(ctx, q, true)
		}()
	}

	wg.Wait()
	return results
}
