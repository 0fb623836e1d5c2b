package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a read-only catalog item.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// Rating is the aggregated review score of a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Category is a catalog category with its URL slug.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FilterByTitle returns the products whose title contains query, ignoring
// case. An empty or blank query returns products unchanged.
func FilterByTitle(products []Product, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}
