package seed

import (
	"fmt"
	"math"

	"product-catalog/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Value pools for generated products.
var (
	categoryPool = []string{
		"Electronics", "Apparel", "Books", "Home & Kitchen", "Toys", "Sports",
		"Garden", "Automotive", "Beauty", "Grocery", "Computers", "Mobile",
	}
	brandPool    = []string{"HP", "Nike", "Samsung", "Sony"}
	colorPool    = []string{"Red", "Blue", "Green", "Black", "White", "Grey", "Yellow", "Pink", "Silver", "Gold"}
	sizePool     = []string{"XS", "S", "M", "L", "XL", "XXL"}
	materialPool = []string{"Cotton", "Polyester", "Wool", "Leather"}
	memoryPool   = []int{4, 8, 16, 32, 64, 128}
	storagePool  = []int{64, 128, 256, 512, 1024}
)

// Generator produces pseudo-random catalogue entries. The same seed yields
// the same products, which keeps seeded environments reproducible.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator. Pass seed 0 for a random sequence.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Products generates n products.
func (g *Generator) Products(n int) []model.Product {
	products := make([]model.Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, g.product())
	}
	return products
}

func (g *Generator) product() model.Product {
	categories := g.categories()

	attrs := map[string]any{
		"color": g.faker.RandomString(colorPool),
	}
	if containsAny(categories, "Electronics", "Computers", "Mobile") {
		attrs["memory_gb"] = g.faker.RandomInt(memoryPool)
		attrs["storage_gb"] = g.faker.RandomInt(storagePool)
	}
	if containsAny(categories, "Apparel") {
		attrs["size"] = g.faker.RandomString(sizePool)
		attrs["material"] = g.faker.RandomString(materialPool)
	}

	return model.Product{
		Name:        g.faker.ProductName() + " " + g.faker.AdjectiveDescriptive(),
		Description: g.faker.Sentence(8) + " " + g.faker.Sentence(8),
		Price:       roundPrice(g.faker.Float64Range(1, 100000)),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/400/300", uuid.NewString()),
		Brand:       g.faker.RandomString(brandPool),
		Categories:  categories,
		Attrs:       attrs,
	}
}

// categories picks 1-3 distinct category names.
func (g *Generator) categories() []string {
	pool := append([]string(nil), categoryPool...)
	g.faker.ShuffleStrings(pool)
	return pool[:g.faker.Number(1, 3)]
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}

func roundPrice(value float64) float64 {
	return math.Round(value*100) / 100
}
