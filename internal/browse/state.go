package browse

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// State is the complete set of browse controls: free-text search, facet
// selections, price bounds, sort choice and the current page. Page is
// 1-based; a zero value means page 1.
type State struct {
	Search     string
	Categories []string
	Brands     []string
	Attrs      map[string][]string
	PriceMin   *float64
	PriceMax   *float64
	SortBy     string
	SortOrder  string
	Page       int
}

// Values serializes the non-default subset of the state into URL query
// parameters, so a reload or back-navigation restores the same view.
func (s State) Values() url.Values {
	v := url.Values{}

	if s.Search != "" {
		v.Set("search", s.Search)
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	if len(s.Categories) > 0 {
		v.Set("categories", strings.Join(s.Categories, ","))
	}
	if len(s.Brands) > 0 {
		v.Set("brands", strings.Join(s.Brands, ","))
	}
	if len(s.Attrs) > 0 {
		// map keys marshal in sorted order, so the encoding is stable
		if b, err := json.Marshal(s.Attrs); err == nil {
			v.Set("attrs", string(b))
		}
	}
	if s.PriceMin != nil {
		v.Set("price_min", formatPrice(*s.PriceMin))
	}
	if s.PriceMax != nil {
		v.Set("price_max", formatPrice(*s.PriceMax))
	}
	if s.SortBy != "" {
		v.Set("sort_by", s.SortBy)
	}
	if s.SortOrder != "" {
		v.Set("sort_order", s.SortOrder)
	}

	return v
}

// ParseState restores a State from URL query parameters. It is applied once
// when a view is initialized and never again: afterwards state flows one
// way, state to URL. Malformed values fall back to their defaults.
func ParseState(v url.Values) State {
	s := State{
		Search:     v.Get("search"),
		Categories: splitCSV(v.Get("categories")),
		Brands:     splitCSV(v.Get("brands")),
		PriceMin:   parsePrice(v.Get("price_min")),
		PriceMax:   parsePrice(v.Get("price_max")),
		SortBy:     v.Get("sort_by"),
		SortOrder:  v.Get("sort_order"),
		Page:       1,
	}

	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 1 {
		s.Page = page
	}

	if raw := v.Get("attrs"); raw != "" {
		var attrs map[string][]string
		if err := json.Unmarshal([]byte(raw), &attrs); err == nil && len(attrs) > 0 {
			s.Attrs = attrs
		}
	}

	return s
}

// clone returns a deep copy so a snapshot handed to a fetch cannot observe
// later mutations.
func (s State) clone() State {
	c := s
	c.Categories = append([]string(nil), s.Categories...)
	c.Brands = append([]string(nil), s.Brands...)
	if s.Attrs != nil {
		c.Attrs = make(map[string][]string, len(s.Attrs))
		for key, values := range s.Attrs {
			c.Attrs[key] = append([]string(nil), values...)
		}
	}
	if s.PriceMin != nil {
		min := *s.PriceMin
		c.PriceMin = &min
	}
	if s.PriceMax != nil {
		max := *s.PriceMax
		c.PriceMax = &max
	}
	return c
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func formatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
