package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultQuantity is used when an add request carries no positive quantity.
const DefaultQuantity = 1

// CartEntry pairs a product with the quantity in the cart.
type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price x quantity for the entry.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// Cart is an ordered list of entries with at most one entry per product id.
// Totals are always derived from the entries.
type Cart struct {
	Entries []CartEntry
}

// TotalItems returns the sum of all entry quantities.
func (c Cart) TotalItems() int {
	var n int
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

// TotalPrice returns the exact sum of price x quantity over all entries.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.Entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart holds no entries.
func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}

// IndexOf returns the index of the entry for productID, or -1.
func (c Cart) IndexOf(productID int) int {
	for i := range c.Entries {
		if c.Entries[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no entry storage with c.
func (c Cart) Clone() Cart {
	if c.Entries == nil {
		return Cart{Entries: []CartEntry{}}
	}
	entries := make([]CartEntry, len(c.Entries))
	copy(entries, c.Entries)
	return Cart{Entries: entries}
}

// Add merges quantity into the entry for p, appending a new entry when the
// product is not in the cart yet. Non-positive quantities count as
// DefaultQuantity.
func (c *Cart) Add(p Product, quantity int) {
	if quantity <= 0 {
		quantity = DefaultQuantity
	}
	if i := c.IndexOf(p.ID); i >= 0 {
		c.Entries[i].Quantity += quantity
		return
	}
	c.Entries = append(c.Entries, CartEntry{Product: p, Quantity: quantity})
}

// SetQuantity sets the quantity of productID exactly. A quantity of zero or
// less removes the entry. It reports whether the cart changed.
func (c *Cart) SetQuantity(productID, quantity int) bool {
	i := c.IndexOf(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.removeAt(i)
		return true
	}
	if c.Entries[i].Quantity == quantity {
		return false
	}
	c.Entries[i].Quantity = quantity
	return true
}

// Remove deletes the entry for productID and reports whether one existed.
func (c *Cart) Remove(productID int) bool {
	i := c.IndexOf(productID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// Clear drops every entry.
func (c *Cart) Clear() {
	c.Entries = nil
}

func (c *Cart) removeAt(i int) {
	c.Entries = append(c.Entries[:i:i], c.Entries[i+1:]...)
}

type cartJSON struct {
	Entries    []CartEntry `json:"entries"`
	TotalItems int         `json:"total_items"`
	TotalPrice string      `json:"total_price"`
}

// MarshalJSON renders the entries together with the derived totals. The
// total price is rendered with two fraction digits.
func (c Cart) MarshalJSON() ([]byte, error) {
	entries := c.Entries
	if entries == nil {
		entries = []CartEntry{}
	}
	return json.Marshal(cartJSON{
		Entries:    entries,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice().StringFixed(2),
	})
}

// UnmarshalJSON reads the entries and ignores the derived fields.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.Entries = v.Entries
	return nil
}

// CartChangeKind distinguishes cart change notifications.
type CartChangeKind string

const (
	CartUpdated CartChangeKind = "updated"
	CartCleared CartChangeKind = "cleared"
)

// CartChange describes a completed cart mutation and the resulting cart.
type CartChange struct {
	Kind CartChangeKind
	Cart Cart
}
