package seed

import (
	"context"
	"fmt"

	"product-catalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Insert bulk-inserts products, leaving id and created_at assignment to
// the database. The catalogue itself stays read-only; this is the one
// write path and it lives with the seeder.
func Insert(ctx context.Context, pool *pgxpool.Pool, products []model.Product, logger zerolog.Logger) error {
	query := `
		INSERT INTO products (name, description, price, image_url, brand, categories, attrs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query, p.Name, p.Description, p.Price, p.ImageURL, p.Brand, p.Categories, p.Attrs)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			logger.Error().Err(err).Int("index", i).Msg("failed to insert product")
			return fmt.Errorf("failed to insert product %d: %w", i, err)
		}
	}

	logger.Info().Int("count", len(products)).Msg("products inserted")

	return nil
}
