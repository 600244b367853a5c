package model

import "strings"

// Sort keys accepted by the list endpoint.
const (
	SortRelevance = "relevance"
	SortPrice     = "price"
	SortName      = "name"
	SortDate      = "date"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Pagination bounds for the list endpoint.
const (
	DefaultPageSize = 24
	MaxPageSize     = 200
)

// DefaultAttrFacetKeys are the attribute facets computed when the request
// does not constrain any attribute.
var DefaultAttrFacetKeys = []string{"color", "size", "memory_gb"}

// Filter captures every user-supplied constraint on the product list. All
// fields are optional; the zero value of each field means "no constraint".
type Filter struct {
	Search     string
	Categories []string
	Brands     []string
	PriceMin   *float64
	PriceMax   *float64
	Attrs      map[string][]string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// Normalize returns a copy of the filter with pagination clamped and sort
// fields reduced to their supported values. Out-of-range or unknown input
// falls back to a default rather than producing an error.
func (f Filter) Normalize() Filter {
	switch {
	case f.PageSize == 0:
		f.PageSize = DefaultPageSize
	case f.PageSize < 1:
		f.PageSize = 1
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}

	if f.Page < 1 {
		f.Page = 1
	}

	// Relevance is the default: with an active search it ranks by match
	// score, without one it degrades to newest-first.
	switch strings.ToLower(f.SortBy) {
	case SortPrice:
		f.SortBy = SortPrice
	case SortName:
		f.SortBy = SortName
	case SortDate:
		f.SortBy = SortDate
	default:
		f.SortBy = SortRelevance
	}

	if strings.ToLower(f.SortOrder) == SortAsc {
		f.SortOrder = SortAsc
	} else {
		f.SortOrder = SortDesc
	}

	return f
}

// Offset converts the 1-based page number into a row offset.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
