package domain

import "time"

// CartLine is a single (menu item, quantity) entry in a user's cart. Name and
// UnitPrice are the item's live catalog values at read time; they are not
// frozen until the cart is converted into an order.
type CartLine struct {
	ItemID    string    `json:"item_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineTotal returns the live total for this line.
func (l *CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the per-user mutable selection. There is exactly one cart per user,
// created lazily on first access; an empty Lines slice means an empty cart.
type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// Subtotal returns the sum of all line totals at current catalog prices.
func (c *Cart) Subtotal() int64 {
	var total int64
	for i := range c.Lines {
		total += c.Lines[i].LineTotal()
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for i := range c.Lines {
		count += c.Lines[i].Quantity
	}
	return count
}

// FindLineIndex returns the index of the line for the given item, or -1.
func (c *Cart) FindLineIndex(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
