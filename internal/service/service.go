package service

import (
	"context"

	"product-catalog/internal/model"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// Search normalizes the filter and returns the matching page of
	// products with facets and the total match count.
	Search(ctx context.Context, filter model.Filter) (*model.SearchResult, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
}
