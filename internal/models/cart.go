package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CartLine is one cart entry. Name and unit price are captured when the item
// is first added and are never re-read from the catalog afterwards.
type CartLine struct {
	ItemID   int             `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price * quantity for this line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart maps menu item ids to cart lines. Every line in a cart has
// quantity >= 1; clearing replaces the whole map.
type Cart map[int]CartLine

// AddOrIncrement adds quantity of item to the cart. An existing line keeps
// its captured name and price; only the quantity grows.
func (c Cart) AddOrIncrement(item MenuItem, quantity int) {
	if line, ok := c[item.ID]; ok {
		line.Quantity += quantity
		c[item.ID] = line
		return
	}
	c[item.ID] = CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: quantity,
	}
}

// Total sums price * quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Lines returns the cart lines in ascending item id order for stable display.
func (c Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c))
	for _, line := range c {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines
}

// Snapshot returns an independent copy of the cart.
func (c Cart) Snapshot() Cart {
	snap := make(Cart, len(c))
	for id, line := range c {
		snap[id] = line
	}
	return snap
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}
