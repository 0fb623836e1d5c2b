package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/utafrali/shopease/internal/domain"
)

// CartListener is notified after every cart mutation with the resulting
// snapshot.
type CartListener func(ctx context.Context, change domain.CartChange)

// CartService owns the in-memory cart. Mutations are serialized; listeners
// run after the lock is released so they may read the cart again.
type CartService struct {
	mu        sync.Mutex
	cart      domain.Cart
	listeners []CartListener
	logger    *slog.Logger
}

// NewCartService creates an empty cart.
func NewCartService(logger *slog.Logger) *CartService {
	return &CartService{logger: logger}
}

// Subscribe registers a listener for cart changes.
func (s *CartService) Subscribe(l CartListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// AddToCart adds quantity units of p. A non-positive quantity adds one unit.
func (s *CartService) AddToCart(ctx context.Context, p domain.Product, quantity int) domain.Cart {
	snapshot := s.mutate(ctx, domain.CartUpdated, func(c *domain.Cart) bool {
		c.Add(p, quantity)
		return true
	})

	s.logger.InfoContext(ctx, "added product to cart",
		slog.Int("product_id", p.ID),
		slog.Int("quantity", max(quantity, domain.DefaultQuantity)),
		slog.Int("total_items", snapshot.TotalItems()),
	)
	return snapshot
}

// UpdateQuantity sets the quantity of productID. Zero or less removes the
// entry; unknown products are ignored.
func (s *CartService) UpdateQuantity(ctx context.Context, productID, quantity int) domain.Cart {
	return s.mutate(ctx, domain.CartUpdated, func(c *domain.Cart) bool {
		return c.SetQuantity(productID, quantity)
	})
}

// RemoveFromCart drops productID from the cart if present.
func (s *CartService) RemoveFromCart(ctx context.Context, productID int) domain.Cart {
	return s.mutate(ctx, domain.CartUpdated, func(c *domain.Cart) bool {
		return c.Remove(productID)
	})
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context) domain.Cart {
	snapshot := s.mutate(ctx, domain.CartCleared, func(c *domain.Cart) bool {
		c.Clear()
		return true
	})
	s.logger.InfoContext(ctx, "cart cleared")
	return snapshot
}

// Cart returns a copy of the current cart.
func (s *CartService) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// TotalItems returns the sum of quantities in the cart.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// TotalPrice returns the exact cart total.
func (s *CartService) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

// mutate applies fn under the lock and notifies listeners when fn reports a
// change.
func (s *CartService) mutate(ctx context.Context, kind domain.CartChangeKind, fn func(*domain.Cart) bool) domain.Cart {
	s.mu.Lock()
	changed := fn(&s.cart)
	snapshot := s.cart.Clone()
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(ctx, domain.CartChange{Kind: kind, Cart: snapshot.Clone()})
		}
	}
	return snapshot
}
