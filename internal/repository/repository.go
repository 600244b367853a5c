package repository

import (
	"context"

	"product-catalog/internal/model"
)

// ProductRepository defines read access to the product catalogue.
type ProductRepository interface {
	// Search returns one page of products matching the filter together with
	// the total match count and the facet breakdowns. The filter must
	// already be normalized.
	Search(ctx context.Context, filter model.Filter) (*model.SearchResult, error)

	// GetByID retrieves a single product by its ID, or nil when no row
	// matches.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
