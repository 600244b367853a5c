package handler

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"product-catalog/internal/model"
)

// parseFilter maps raw query parameters onto a Filter. Malformed optional
// values are normalized to "no constraint" instead of failing the request;
// range clamping happens later in the service.
func parseFilter(q url.Values) model.Filter {
	return model.Filter{
		Search:     strings.TrimSpace(q.Get("search")),
		Categories: splitCSV(q.Get("categories")),
		Brands:     splitCSV(q.Get("brands")),
		PriceMin:   parsePrice(q.Get("price_min")),
		PriceMax:   parsePrice(q.Get("price_max")),
		Attrs:      parseAttrs(q.Get("attrs")),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
		Page:       parseIntDefault(q.Get("page"), 1),
		PageSize:   parseIntDefault(q.Get("pageSize"), 0),
	}
}

// splitCSV splits a comma separated list, trimming whitespace and dropping
// empty entries.
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

// parsePrice returns a bound for a well-formed number and nil otherwise.
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

// parseIntDefault parses a positive-base-10 parameter, falling back to the
// default on anything malformed.
func parseIntDefault(raw string, defaultValue int) int {
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// parseAttrs decodes the attrs parameter, a JSON object mapping attribute
// keys to requested value lists. Numbers and booleans are stringified the
// way they appear in the stored attrs. A body that fails to decode is
// treated as absent, never as an error.
func parseAttrs(raw string) map[string][]string {
	if raw == "" {
		return nil
	}

	var decoded map[string][]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	attrs := make(map[string][]string, len(decoded))
	for key, values := range decoded {
		var vs []string
		for _, v := range values {
			switch v := v.(type) {
			case string:
				vs = append(vs, v)
			case float64:
				vs = append(vs, strconv.FormatFloat(v, 'f', -1, 64))
			case bool:
				vs = append(vs, strconv.FormatBool(v))
			}
		}
		if len(vs) > 0 {
			attrs[key] = vs
		}
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
