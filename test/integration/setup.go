package integration

import (
	"context"
	"testing"
	"time"

	"product-catalog/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the products schema, matching the migration.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			categories JSONB NOT NULL DEFAULT '[]'::jsonb,
			attrs JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_products_search
			ON products USING GIN (to_tsvector('english', name || ' ' || description));
		CREATE INDEX IF NOT EXISTS idx_products_categories ON products USING GIN (categories);
		CREATE INDEX IF NOT EXISTS idx_products_brand ON products (brand);
		CREATE INDEX IF NOT EXISTS idx_products_price ON products (price);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts a small catalogue and returns the generated IDs in
// insertion order.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) []int64 {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	products := []model.Product{
		{
			Name:        "Blue Cotton Shirt",
			Description: "A soft blue shirt for everyday wear",
			Price:       25.00,
			Brand:       "Nike",
			Categories:  []string{"Apparel"},
			Attrs:       map[string]any{"color": "Blue", "size": "M"},
		},
		{
			Name:        "Red Running Shoes",
			Description: "Lightweight red shoes for long runs",
			Price:       120.00,
			Brand:       "Nike",
			Categories:  []string{"Apparel", "Sports"},
			Attrs:       map[string]any{"color": "Red", "size": "L"},
		},
		{
			Name:        "Gaming Laptop",
			Description: "Blue backlit keyboard and fast graphics",
			Price:       1500.00,
			Brand:       "HP",
			Categories:  []string{"Electronics", "Computers"},
			Attrs:       map[string]any{"color": "Black", "memory_gb": 16},
		},
		{
			Name:        "Smartphone",
			Description: "A phone with a bright display",
			Price:       450.00,
			Brand:       "Samsung",
			Categories:  []string{"Electronics", "Mobile"},
			Attrs:       map[string]any{"color": "Black", "memory_gb": 8},
		},
		{
			Name:        "Headphones",
			Description: "Noise cancelling over-ear headphones",
			Price:       80.00,
			Brand:       "Sony",
			Categories:  []string{"Electronics"},
			Attrs:       map[string]any{"color": "White"},
		},
	}

	query := `
		INSERT INTO products (name, description, price, image_url, brand, categories, attrs, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	ids := make([]int64, 0, len(products))
	for i, p := range products {
		var id int64
		err := pool.QueryRow(ctx, query,
			p.Name, p.Description, p.Price, p.ImageURL, p.Brand, p.Categories, p.Attrs,
			base.Add(time.Duration(i)*time.Minute),
		).Scan(&id)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.Name, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// CleanupDB removes all products.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM products"); err != nil {
		t.Logf("failed to clean products table: %v", err)
	}
}
