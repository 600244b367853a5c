package repository

import (
	"testing"

	"product-catalog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestSearchTerms(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		expected string
	}{
		{
			name:     "Single term",
			search:   "laptop",
			expected: "laptop:*",
		},
		{
			name:     "Multiple terms joined as alternatives",
			search:   "blue shirt",
			expected: "blue:* | shirt:*",
		},
		{
			name:     "Punctuation stripped from tokens",
			search:   "blue-ish shirt!!",
			expected: "blueish:* | shirt:*",
		},
		{
			name:     "Digits preserved",
			search:   "usb 3",
			expected: "usb:* | 3:*",
		},
		{
			name:     "Whitespace only",
			search:   "   ",
			expected: "",
		},
		{
			name:     "Punctuation only",
			search:   "&& || !!",
			expected: "",
		},
		{
			name:     "Empty",
			search:   "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, searchTerms(tt.search))
		})
	}
}

func TestCountQuery(t *testing.T) {
	tests := []struct {
		name         string
		filter       model.Filter
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name:         "No filters",
			filter:       model.Filter{},
			expectedSQL:  "SELECT COUNT(*) FROM products",
			expectedArgs: nil,
		},
		{
			name:   "Search only",
			filter: model.Filter{Search: "blue shirt"},
			expectedSQL: "SELECT COUNT(*) FROM products WHERE " +
				"to_tsvector('english', name || ' ' || description) @@ to_tsquery('english', $1)",
			expectedArgs: []any{"blue:* | shirt:*"},
		},
		{
			name:         "Categories only",
			filter:       model.Filter{Categories: []string{"Electronics", "Computers"}},
			expectedSQL:  "SELECT COUNT(*) FROM products WHERE categories ?| $1",
			expectedArgs: []any{[]string{"Electronics", "Computers"}},
		},
		{
			name:         "Brands only",
			filter:       model.Filter{Brands: []string{"HP", "Sony"}},
			expectedSQL:  "SELECT COUNT(*) FROM products WHERE brand = ANY($1)",
			expectedArgs: []any{[]string{"HP", "Sony"}},
		},
		{
			name:         "Price bounds",
			filter:       model.Filter{PriceMin: floatPtr(50), PriceMax: floatPtr(100)},
			expectedSQL:  "SELECT COUNT(*) FROM products WHERE price >= $1 AND price <= $2",
			expectedArgs: []any{50.0, 100.0},
		},
		{
			name: "Attrs iterate in sorted key order",
			filter: model.Filter{
				Attrs: map[string][]string{
					"size":  {"M"},
					"color": {"Red", "Blue"},
				},
			},
			expectedSQL: "SELECT COUNT(*) FROM products WHERE " +
				"attrs->>$1 = ANY($2) AND attrs->>$3 = ANY($4)",
			expectedArgs: []any{"color", []string{"Red", "Blue"}, "size", []string{"M"}},
		},
		{
			name: "All filters combined",
			filter: model.Filter{
				Search:     "shirt",
				Categories: []string{"Apparel"},
				Brands:     []string{"Nike"},
				PriceMin:   floatPtr(10),
				Attrs:      map[string][]string{"color": {"Blue"}},
			},
			expectedSQL: "SELECT COUNT(*) FROM products WHERE " +
				"to_tsvector('english', name || ' ' || description) @@ to_tsquery('english', $1)" +
				" AND categories ?| $2 AND brand = ANY($3) AND price >= $4 AND attrs->>$5 = ANY($6)",
			expectedArgs: []any{"shirt:*", []string{"Apparel"}, []string{"Nike"}, 10.0, "color", []string{"Blue"}},
		},
		{
			name:         "Attr key with empty value list is skipped",
			filter:       model.Filter{Attrs: map[string][]string{"color": {}}},
			expectedSQL:  "SELECT COUNT(*) FROM products",
			expectedArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := countQuery(tt.filter)
			assert.Equal(t, tt.expectedSQL, query)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestPageQuery(t *testing.T) {
	t.Run("Default sort is newest first", func(t *testing.T) {
		query, args := pageQuery(model.Filter{Page: 1, PageSize: 24})

		assert.Equal(t,
			"SELECT id, name, description, price, image_url, brand, categories, attrs, created_at"+
				" FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			query,
		)
		assert.Equal(t, []any{24, 0}, args)
	})

	t.Run("Offset reflects the page number", func(t *testing.T) {
		_, args := pageQuery(model.Filter{Page: 3, PageSize: 24})
		assert.Equal(t, []any{24, 48}, args)
	})

	t.Run("Relevance sort re-binds the search terms", func(t *testing.T) {
		query, args := pageQuery(model.Filter{
			Search:   "blue shirt",
			SortBy:   model.SortRelevance,
			Page:     1,
			PageSize: 24,
		})

		assert.Contains(t, query,
			"WHERE to_tsvector('english', name || ' ' || description) @@ to_tsquery('english', $1)")
		assert.Contains(t, query,
			"ORDER BY ts_rank(to_tsvector('english', name || ' ' || description), to_tsquery('english', $2)) DESC")
		assert.Equal(t, []any{"blue:* | shirt:*", "blue:* | shirt:*", 24, 0}, args)
	})

	t.Run("Normalized search without an explicit sort ranks by relevance", func(t *testing.T) {
		query, args := pageQuery(model.Filter{Search: "blue shirt"}.Normalize())

		assert.Contains(t, query,
			"ORDER BY ts_rank(to_tsvector('english', name || ' ' || description), to_tsquery('english', $2)) DESC")
		assert.Equal(t, []any{"blue:* | shirt:*", "blue:* | shirt:*", 24, 0}, args)
	})

	t.Run("Relevance sort without search falls back to newest first", func(t *testing.T) {
		query, args := pageQuery(model.Filter{SortBy: model.SortRelevance, Page: 1, PageSize: 24})

		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.NotContains(t, query, "ts_rank")
		assert.Equal(t, []any{24, 0}, args)
	})

	t.Run("Price sort ascending", func(t *testing.T) {
		query, _ := pageQuery(model.Filter{
			SortBy:    model.SortPrice,
			SortOrder: model.SortAsc,
			Page:      1,
			PageSize:  24,
		})
		assert.Contains(t, query, "ORDER BY price ASC")
	})

	t.Run("Name sort is case-insensitive", func(t *testing.T) {
		query, _ := pageQuery(model.Filter{
			SortBy:    model.SortName,
			SortOrder: model.SortAsc,
			Page:      1,
			PageSize:  24,
		})
		assert.Contains(t, query, "ORDER BY LOWER(name) ASC")
	})

	t.Run("Date sort descending", func(t *testing.T) {
		query, _ := pageQuery(model.Filter{
			SortBy:    model.SortDate,
			SortOrder: model.SortDesc,
			Page:      1,
			PageSize:  24,
		})
		assert.Contains(t, query, "ORDER BY created_at DESC")
	})

	t.Run("Placeholder numbering restarts per statement", func(t *testing.T) {
		filter := model.Filter{Brands: []string{"HP"}, Page: 1, PageSize: 24}

		countSQL, countArgs := countQuery(filter)
		pageSQL, pageArgs := pageQuery(filter)

		assert.Contains(t, countSQL, "brand = ANY($1)")
		assert.Contains(t, pageSQL, "brand = ANY($1)")
		assert.Len(t, countArgs, 1)
		assert.Len(t, pageArgs, 3)
	})
}

func TestFacetQueries(t *testing.T) {
	filter := model.Filter{Brands: []string{"HP"}}

	t.Run("Categories facet unnests the categories array", func(t *testing.T) {
		query, args := categoriesFacetQuery(filter)

		assert.Equal(t,
			"SELECT c.value, COUNT(*) AS count"+
				" FROM products, jsonb_array_elements_text(categories) AS c(value)"+
				" WHERE brand = ANY($1)"+
				" GROUP BY c.value ORDER BY count DESC, c.value ASC",
			query,
		)
		assert.Equal(t, []any{[]string{"HP"}}, args)
	})

	t.Run("Brands facet groups by brand", func(t *testing.T) {
		query, args := brandsFacetQuery(model.Filter{Search: "laptop"})

		assert.Equal(t,
			"SELECT brand, COUNT(*) AS count FROM products"+
				" WHERE to_tsvector('english', name || ' ' || description) @@ to_tsquery('english', $1)"+
				" GROUP BY brand ORDER BY count DESC, brand ASC",
			query,
		)
		assert.Equal(t, []any{"laptop:*"}, args)
	})

	t.Run("Price facet buckets into fixed ranges", func(t *testing.T) {
		query, args := priceFacetQuery(model.Filter{})

		for _, bucket := range []string{"'0-49'", "'50-99'", "'100-499'", "'500-999'", "'1000-4999'", "'5000+'"} {
			assert.Contains(t, query, bucket)
		}
		assert.Contains(t, query, "GROUP BY value ORDER BY count DESC, value ASC")
		assert.Empty(t, args)
	})

	t.Run("Attr facet binds the key and excludes rows without a value", func(t *testing.T) {
		query, args := attrFacetQuery(model.Filter{}, "color")

		assert.Equal(t,
			"SELECT attrs->>$1 AS value, COUNT(*) AS count FROM products"+
				" WHERE attrs ? $1 AND attrs->>$1 IS NOT NULL"+
				" GROUP BY value ORDER BY count DESC, value ASC",
			query,
		)
		assert.Equal(t, []any{"color"}, args)
	})

	t.Run("Attr facet keeps the shared predicate", func(t *testing.T) {
		query, args := attrFacetQuery(model.Filter{Brands: []string{"HP", "Sony"}}, "size")

		require.Contains(t, query, "brand = ANY($1)")
		require.Contains(t, query, "attrs ? $2")
		require.Contains(t, query, "attrs->>$2 IS NOT NULL")
		assert.Equal(t, []any{[]string{"HP", "Sony"}, "size"}, args)
	})
}

func TestSortedAttrKeys(t *testing.T) {
	keys := sortedAttrKeys(map[string][]string{
		"size":      {"M"},
		"color":     {"Red"},
		"memory_gb": {"16"},
		"empty":     {},
	})
	assert.Equal(t, []string{"color", "memory_gb", "size"}, keys)

	assert.Empty(t, sortedAttrKeys(nil))
}
