package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the confirmation of a simulated checkout.
type Order struct {
	ID         uuid.UUID
	Entries    []CartEntry
	TotalItems int
	TotalPrice decimal.Decimal
	PlacedAt   time.Time
}

// NewOrder builds an order from a cart snapshot.
func NewOrder(cart Cart, placedAt time.Time) Order {
	snapshot := cart.Clone()
	return Order{
		ID:         uuid.New(),
		Entries:    snapshot.Entries,
		TotalItems: snapshot.TotalItems(),
		TotalPrice: snapshot.TotalPrice(),
		PlacedAt:   placedAt.UTC(),
	}
}

func (o Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         uuid.UUID   `json:"id"`
		Entries    []CartEntry `json:"entries"`
		TotalItems int         `json:"total_items"`
		TotalPrice string      `json:"total_price"`
		PlacedAt   time.Time   `json:"placed_at"`
	}{o.ID, o.Entries, o.TotalItems, o.TotalPrice.StringFixed(2), o.PlacedAt})
}
