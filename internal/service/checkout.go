package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utafrali/shopease/internal/domain"
	apperrors "github.com/utafrali/shopease/pkg/errors"
)

// DefaultCheckoutDelay is the simulated processing time of a checkout.
const DefaultCheckoutDelay = 1500 * time.Millisecond

// OrderListener is notified after an order has been placed.
type OrderListener func(ctx context.Context, order domain.Order)

// CheckoutService simulates placing an order for the current cart.
type CheckoutService struct {
	cart   *CartService
	delay  time.Duration
	logger *slog.Logger

	sleep func(time.Duration)
	now   func() time.Time

	inFlight atomic.Bool

	mu        sync.Mutex
	listeners []OrderListener
}

// NewCheckoutService creates a checkout service over cart.
func NewCheckoutService(cart *CartService, delay time.Duration, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:   cart,
		delay:  delay,
		logger: logger,
		sleep:  time.Sleep,
		now:    time.Now,
	}
}

// OnOrderPlaced registers a listener for placed orders.
func (s *CheckoutService) OnOrderPlaced(l OrderListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Checkout places an order for the cart as it is when called and then
// empties the cart. Once started it runs to completion even if ctx is
// cancelled.
func (s *CheckoutService) Checkout(ctx context.Context) (domain.Order, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return domain.Order{}, apperrors.Conflict("checkout already in progress")
	}
	defer s.inFlight.Store(false)

	snapshot := s.cart.Cart()
	if snapshot.IsEmpty() {
		return domain.Order{}, apperrors.InvalidInput("cart is empty")
	}

	ctx = context.WithoutCancel(ctx)
	s.sleep(s.delay)

	order := domain.NewOrder(snapshot, s.now())
	s.cart.ClearCart(ctx)

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.String()),
		slog.Int("total_items", order.TotalItems),
		slog.String("total_price", order.TotalPrice.StringFixed(2)),
	)

	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()
	for _, l := range listeners {
		l(ctx, order)
	}
	return order, nil
}
