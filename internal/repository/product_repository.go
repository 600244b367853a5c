package repository

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.Brand, &p.Categories, &p.Attrs, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Search runs the count, page and facet statements sequentially, all under
// the same filter predicate. The first failure aborts the whole call, so a
// result never carries partial facets.
func (r *productRepository) Search(ctx context.Context, f model.Filter) (*model.SearchResult, error) {
	result := &model.SearchResult{
		Page:     f.Page,
		PageSize: f.PageSize,
	}

	query, args := countQuery(f)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&result.Total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := r.queryPage(ctx, f)
	if err != nil {
		return nil, err
	}
	result.Products = products

	query, args = categoriesFacetQuery(f)
	if result.Facets.Categories, err = r.queryFacet(ctx, query, args); err != nil {
		r.logger.Error().Err(err).Msg("failed to compute categories facet")
		return nil, fmt.Errorf("failed to compute categories facet: %w", err)
	}

	query, args = brandsFacetQuery(f)
	if result.Facets.Brands, err = r.queryFacet(ctx, query, args); err != nil {
		r.logger.Error().Err(err).Msg("failed to compute brands facet")
		return nil, fmt.Errorf("failed to compute brands facet: %w", err)
	}

	query, args = priceFacetQuery(f)
	if result.Facets.PriceRanges, err = r.queryFacet(ctx, query, args); err != nil {
		r.logger.Error().Err(err).Msg("failed to compute price facet")
		return nil, fmt.Errorf("failed to compute price facet: %w", err)
	}

	result.Facets.Attrs = make(map[string][]model.FacetValue)
	for _, key := range attrFacetKeys(f) {
		query, args = attrFacetQuery(f, key)
		values, err := r.queryFacet(ctx, query, args)
		if err != nil {
			r.logger.Error().Err(err).Str("attr_key", key).Msg("failed to compute attribute facet")
			return nil, fmt.Errorf("failed to compute attribute facet %s: %w", key, err)
		}
		result.Facets.Attrs[key] = values
	}

	r.logger.Debug().
		Int("total", result.Total).
		Int("page", f.Page).
		Int("page_size", f.PageSize).
		Msg("search completed")

	return result, nil
}

// queryPage retrieves one page of matching products.
func (r *productRepository) queryPage(ctx context.Context, f model.Filter) ([]model.Product, error) {
	query, args := pageQuery(f)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
			&p.Brand, &p.Categories, &p.Attrs, &p.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// queryFacet runs one facet statement and collects its value/count rows.
func (r *productRepository) queryFacet(ctx context.Context, query string, args []any) ([]model.FacetValue, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facet := []model.FacetValue{}
	for rows.Next() {
		var v model.FacetValue
		if err := rows.Scan(&v.Value, &v.Count); err != nil {
			return nil, err
		}
		facet = append(facet, v)
	}

	return facet, rows.Err()
}

// attrFacetKeys returns the attribute keys to facet on: the keys of the
// active attrs filter, or the default set when no attrs filter is applied.
func attrFacetKeys(f model.Filter) []string {
	if keys := sortedAttrKeys(f.Attrs); len(keys) > 0 {
		return keys
	}
	return model.DefaultAttrFacetKeys
}
