package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Products(t *testing.T) {
	products := NewGenerator(42).Products(200)
	require.Len(t, products, 200)

	for _, p := range products {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
		assert.True(t, strings.HasPrefix(p.ImageURL, "https://picsum.photos/seed/"))
		assert.Contains(t, brandPool, p.Brand)

		assert.GreaterOrEqual(t, p.Price, 1.0)
		assert.LessOrEqual(t, p.Price, 100000.0)

		require.NotEmpty(t, p.Categories)
		assert.LessOrEqual(t, len(p.Categories), 3)
		for _, c := range p.Categories {
			assert.Contains(t, categoryPool, c)
		}

		// every product carries a color
		color, ok := p.Attrs["color"].(string)
		require.True(t, ok)
		assert.Contains(t, colorPool, color)

		if containsAny(p.Categories, "Electronics", "Computers", "Mobile") {
			assert.Contains(t, p.Attrs, "memory_gb")
			assert.Contains(t, p.Attrs, "storage_gb")
		}
		if containsAny(p.Categories, "Apparel") {
			assert.Contains(t, p.Attrs, "size")
			assert.Contains(t, p.Attrs, "material")
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	first := NewGenerator(7).Products(20)
	second := NewGenerator(7).Products(20)

	require.Len(t, second, len(first))
	for i := range first {
		// image URLs carry a random UUID; everything else must repeat
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Description, second[i].Description)
		assert.Equal(t, first[i].Price, second[i].Price)
		assert.Equal(t, first[i].Brand, second[i].Brand)
		assert.Equal(t, first[i].Categories, second[i].Categories)
		assert.Equal(t, first[i].Attrs, second[i].Attrs)
	}
}

func TestRoundPrice(t *testing.T) {
	assert.Equal(t, 10.56, roundPrice(10.5649))
	assert.Equal(t, 100.0, roundPrice(99.999))
	assert.Equal(t, 1.0, roundPrice(1))
}
