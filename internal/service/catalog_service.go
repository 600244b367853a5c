package service

import (
	"context"
	"fmt"

	"product-catalog/internal/model"
	"product-catalog/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// Search clamps pagination, normalizes the sort fields and delegates to the
// repository. Invalid optional input never produces an error here; it is
// reduced to a default.
func (s *catalogService) Search(ctx context.Context, filter model.Filter) (*model.SearchResult, error) {
	filter = filter.Normalize()

	result, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("search", filter.Search).
			Int("page", filter.Page).
			Int("page_size", filter.PageSize).
			Msg("failed to search products")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(result.Products)).
		Int("total", result.Total).
		Int("page", filter.Page).
		Msg("retrieved products")

	return result, nil
}

// GetByID retrieves a single product by ID.
func (s *catalogService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id < 1 {
		s.logger.Warn().Int64("product_id", id).Msg("product ID out of range")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}
