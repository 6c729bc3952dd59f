package catalog

import (
	"strings"

	"storefront/internal/domain"
)

type Group struct {
	Category string           `json:"category"`
	Products []domain.Product `json:"products"`
}

// GroupProducts buckets products by category in taxonomy order, keeping the
// incoming order inside each bucket.
func GroupProducts(products []domain.Product, t *Taxonomy) []Group {
	buckets := make(map[string][]domain.Product)
	var seen []string
	for _, p := range products {
		c := t.CategoryOf(p.Category)
		if _, ok := buckets[c]; !ok {
			seen = append(seen, c)
		}
		buckets[c] = append(buckets[c], p)
	}
	out := make([]Group, 0, len(seen))
	for _, c := range t.Order(seen) {
		out = append(out, Group{Category: c, Products: buckets[c]})
	}
	return out
}

// Filter keeps products whose name contains query, ignoring case.
func Filter(products []domain.Product, query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	var out []domain.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
