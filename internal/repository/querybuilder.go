package repository

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"product-catalog/internal/model"
)

// searchVector is the expression behind the GIN full-text index; every
// statement that matches or ranks against it must use the identical text.
const searchVector = "to_tsvector('english', name || ' ' || description)"

// productColumns is the column list returned for a product row.
const productColumns = "id, name, description, price, image_url, brand, categories, attrs, created_at"

// priceBucketCase maps a price onto its fixed range label.
const priceBucketCase = `CASE
		WHEN price < 50 THEN '0-49'
		WHEN price >= 50 AND price < 100 THEN '50-99'
		WHEN price >= 100 AND price < 500 THEN '100-499'
		WHEN price >= 500 AND price < 1000 THEN '500-999'
		WHEN price >= 1000 AND price < 5000 THEN '1000-4999'
		ELSE '5000+'
	END`

// queryBuilder accumulates WHERE conditions with positional bind
// parameters. Only structural SQL (column names, operators) enters the
// statement text; every user-supplied value travels through args.
type queryBuilder struct {
	conds []string
	args  []any
}

// bind registers a parameter value and returns its $n placeholder.
func (b *queryBuilder) bind(value any) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

// cond appends a condition; placeholders come from bind.
func (b *queryBuilder) cond(format string, placeholders ...any) {
	b.conds = append(b.conds, fmt.Sprintf(format, placeholders...))
}

// whereSQL renders the combined predicate, or an empty string when no
// filter is active. Conditions are ANDed; value alternatives within a
// condition (categories, brands, attr values) are expressed by the array
// operators themselves.
func (b *queryBuilder) whereSQL() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// newFilterQuery builds the predicate shared by the count, page and facet
// statements. Each statement calls it again so placeholder numbering
// restarts per statement while the predicate stays identical.
func newFilterQuery(f model.Filter) *queryBuilder {
	b := &queryBuilder{}

	if terms := searchTerms(f.Search); terms != "" {
		b.cond("%s @@ to_tsquery('english', %s)", searchVector, b.bind(terms))
	}

	if len(f.Categories) > 0 {
		// any requested category matches (OR across values)
		b.cond("categories ?| %s", b.bind(f.Categories))
	}

	if len(f.Brands) > 0 {
		b.cond("brand = ANY(%s)", b.bind(f.Brands))
	}

	if f.PriceMin != nil {
		b.cond("price >= %s", b.bind(*f.PriceMin))
	}
	if f.PriceMax != nil {
		b.cond("price <= %s", b.bind(*f.PriceMax))
	}

	// AND across attribute keys, OR within each key's value set. Keys are
	// iterated in sorted order so the statement text is deterministic.
	for _, key := range sortedAttrKeys(f.Attrs) {
		values := f.Attrs[key]
		if len(values) == 0 {
			continue
		}
		b.cond("attrs->>%s = ANY(%s)", b.bind(key), b.bind(values))
	}

	return b
}

// searchTerms converts free text into a prefix-match tsquery: tokens are
// stripped to letters and digits, suffixed with :* and joined as optional
// alternatives so rows matching more terms rank higher.
func searchTerms(search string) string {
	var terms []string
	for _, token := range strings.Fields(search) {
		token = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, token)
		if token != "" {
			terms = append(terms, token+":*")
		}
	}
	return strings.Join(terms, " | ")
}

func sortedAttrKeys(attrs map[string][]string) []string {
	keys := make([]string, 0, len(attrs))
	for key, values := range attrs {
		if len(values) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// orderSQL renders the ORDER BY clause for the page statement. Relevance
// ranking re-binds the search terms because the match score expression is
// re-evaluated in the ordering clause; without an active search it falls
// back to newest-first.
func orderSQL(f model.Filter, b *queryBuilder) string {
	direction := "DESC"
	if f.SortOrder == model.SortAsc {
		direction = "ASC"
	}

	switch f.SortBy {
	case model.SortRelevance:
		if terms := searchTerms(f.Search); terms != "" {
			return fmt.Sprintf(
				" ORDER BY ts_rank(%s, to_tsquery('english', %s)) %s",
				searchVector, b.bind(terms), direction,
			)
		}
	case model.SortPrice:
		return " ORDER BY price " + direction
	case model.SortName:
		return " ORDER BY LOWER(name) " + direction
	case model.SortDate:
		return " ORDER BY created_at " + direction
	}

	return " ORDER BY created_at DESC"
}

// countQuery counts the rows matching the filter predicate.
func countQuery(f model.Filter) (string, []any) {
	b := newFilterQuery(f)
	return "SELECT COUNT(*) FROM products" + b.whereSQL(), b.args
}

// pageQuery selects one page of matching products. The filter must be
// normalized: page and pageSize are assumed clamped.
func pageQuery(f model.Filter) (string, []any) {
	b := newFilterQuery(f)
	query := "SELECT " + productColumns + " FROM products" + b.whereSQL() + orderSQL(f, b) +
		fmt.Sprintf(" LIMIT %s OFFSET %s", b.bind(f.PageSize), b.bind(f.Offset()))
	return query, b.args
}

// categoriesFacetQuery unnests the categories of every matching row and
// counts occurrences per category value.
func categoriesFacetQuery(f model.Filter) (string, []any) {
	b := newFilterQuery(f)
	query := "SELECT c.value, COUNT(*) AS count" +
		" FROM products, jsonb_array_elements_text(categories) AS c(value)" +
		b.whereSQL() +
		" GROUP BY c.value ORDER BY count DESC, c.value ASC"
	return query, b.args
}

// brandsFacetQuery counts matching rows per brand.
func brandsFacetQuery(f model.Filter) (string, []any) {
	b := newFilterQuery(f)
	query := "SELECT brand, COUNT(*) AS count FROM products" + b.whereSQL() +
		" GROUP BY brand ORDER BY count DESC, brand ASC"
	return query, b.args
}

// priceFacetQuery buckets matching rows into the fixed price ranges.
func priceFacetQuery(f model.Filter) (string, []any) {
	b := newFilterQuery(f)
	query := "SELECT " + priceBucketCase + " AS value, COUNT(*) AS count FROM products" +
		b.whereSQL() +
		" GROUP BY value ORDER BY count DESC, value ASC"
	return query, b.args
}

// attrFacetQuery counts the distinct values of one attribute key over the
// matching rows; rows missing the key or storing a JSON null under it are
// excluded. The key itself is a bound parameter, never statement text.
func attrFacetQuery(f model.Filter, key string) (string, []any) {
	b := newFilterQuery(f)
	k := b.bind(key)
	b.conds = append(b.conds, fmt.Sprintf("attrs ? %s", k))
	b.conds = append(b.conds, fmt.Sprintf("attrs->>%s IS NOT NULL", k))
	query := fmt.Sprintf(
		"SELECT attrs->>%s AS value, COUNT(*) AS count FROM products%s GROUP BY value ORDER BY count DESC, value ASC",
		k, b.whereSQL(),
	)
	return query, b.args
}
