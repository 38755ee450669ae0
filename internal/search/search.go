// Package search keeps a full-text index of the catalog.
package search

import (
	"context"
	"strings"

	"github.com/gocql/gocql"

	"boutique/internal/models"
	"boutique/internal/store"
)

// Searcher is implemented by the Elasticsearch index and by the catalog scan used without it.
type Searcher interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id gocql.UUID) error
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// Scan answers queries by walking the whole catalog. Indexing is a no-op.
type Scan struct {
	Products store.ProductStore
}

func (s Scan) IndexProduct(context.Context, models.Product) error { return nil }

func (s Scan) DeleteProduct(context.Context, gocql.UUID) error { return nil }

func (s Scan) Search(ctx context.Context, query string) ([]models.Product, error) {
	all, err := s.Products.ListProducts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	results := make([]models.Product, 0)
	for _, p := range all {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			results = append(results, p)
		}
	}
	return results, nil
}
