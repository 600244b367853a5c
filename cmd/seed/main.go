package main

import (
	"context"
	"fmt"
	"os"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/model"
	"product-catalog/internal/seed"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	count := pflag.IntP("count", "n", 800, "number of products to generate")
	fixture := pflag.StringP("fixture", "f", "", "fixture file to load instead of generating products")
	randomSeed := pflag.Uint64("seed", 0, "generator seed; 0 means random")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger).With().Str("component", "seeder").Logger()

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	var products []model.Product

	if *fixture != "" {
		// Fixture files come from S3 when configured, with a local file
		// system fallback.
		fileLoader := seed.NewFileLoader(logger)
		var loader seed.FixtureLoader = fileLoader

		if cfg.Fixtures.S3Enabled {
			s3Loader, err := seed.NewS3Loader(ctx, cfg.Fixtures.S3Bucket, cfg.Fixtures.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				loader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Fixtures.S3Prefix, true, logger)
			}
		}

		products, err = loader.Load(ctx, *fixture)
		if err != nil {
			return fmt.Errorf("failed to load fixture: %w", err)
		}
	} else {
		logger.Info().
			Int("count", *count).
			Uint64("seed", *randomSeed).
			Msg("generating products")
		products = seed.NewGenerator(*randomSeed).Products(*count)
	}

	if err := seed.Insert(ctx, pool, products, logger); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	logger.Info().Int("count", len(products)).Msg("seeding complete")
	return nil
}
