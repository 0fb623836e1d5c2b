package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/shopease/internal/domain"
	"github.com/utafrali/shopease/pkg/slug"
)

// CatalogClient is the read side of the remote catalog.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// BrowseQuery narrows a product listing. Category accepts either the
// category name or its slug; Search matches product titles.
type BrowseQuery struct {
	Category string
	Search   string
}

// CatalogService serves product listings from the remote catalog.
type CatalogService struct {
	client CatalogClient
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(client CatalogClient, logger *slog.Logger) *CatalogService {
	return &CatalogService{client: client, logger: logger}
}

// Browse lists products, optionally restricted to a category, and keeps
// those whose title contains the search text.
func (s *CatalogService) Browse(ctx context.Context, q BrowseQuery) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)

	category := strings.TrimSpace(q.Category)
	if category == "" {
		products, err = s.client.ListProducts(ctx)
	} else {
		products, err = s.client.ListProductsByCategory(ctx, s.resolveCategory(ctx, category))
	}
	if err != nil {
		return nil, fmt.Errorf("browse products: %w", err)
	}

	products = domain.FilterByTitle(products, q.Search)
	if products == nil {
		products = []domain.Product{}
	}

	s.logger.DebugContext(ctx, "browsed catalog",
		slog.String("category", category),
		slog.String("search", q.Search),
		slog.Int("count", len(products)),
	)
	return products, nil
}

// Product returns a single product.
func (s *CatalogService) Product(ctx context.Context, id int) (domain.Product, error) {
	p, err := s.client.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// Categories lists the catalog categories with their slugs.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	names, err := s.client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]domain.Category, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Category{Name: n, Slug: slug.Generate(n)})
	}
	return out, nil
}

// resolveCategory maps a slug back to the category name the catalog expects.
// Unknown values, or a failed category lookup, pass the value through.
func (s *CatalogService) resolveCategory(ctx context.Context, value string) string {
	names, err := s.client.ListCategories(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "category lookup failed, using value as is",
			slog.String("category", value),
			slog.String("error", err.Error()),
		)
		return value
	}
	for _, n := range names {
		if slug.Matches(n, value) {
			return n
		}
	}
	return value
}
