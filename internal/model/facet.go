package model

// FacetValue is one distinct value of a facet dimension together with the
// number of currently matching products carrying it.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets groups every facet family computed for a result page. All counts
// are taken over the fully filtered result set, so applying a filter
// narrows its sibling facets.
type Facets struct {
	Categories  []FacetValue            `json:"categories"`
	Brands      []FacetValue            `json:"brands"`
	PriceRanges []FacetValue            `json:"priceRanges"`
	Attrs       map[string][]FacetValue `json:"attrs"`
}

// SearchResult is the list endpoint envelope.
type SearchResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
	Facets   Facets    `json:"facets"`
}
