package catalog

import (
	"context"
	"fmt"
	"sync"

	"resinstore/internal/model"

	"github.com/rs/zerolog"
)

// LoadAll loads every path concurrently and concatenates the results in path order.
// When two files carry the same product ID the earlier file wins.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]model.Product, error) {
	logger = logger.With().Str("component", "catalog-merge").Logger()

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			products, err := loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var merged []model.Product
	seen := make(map[string]struct{})
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load catalogue %s: %w", paths[i], result.err)
		}
		for _, p := range result.products {
			if _, dup := seen[p.ID]; dup {
				logger.Warn().Str("product_id", p.ID).Str("file", paths[i]).Msg("duplicate product skipped")
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	logger.Info().
		Int("files", len(paths)).
		Int("products", len(merged)).
		Msg("catalogue files merged")

	return merged, nil
}
