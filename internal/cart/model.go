package cart

import (
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
)

// MaxQuantity is the largest quantity a single line may carry.
const MaxQuantity = 99

type Line struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Unit     catalog.Unit     `json:"unit"`
	Category catalog.Category `json:"category"`
	Quantity int              `json:"quantity"`
}

func (l Line) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines. The zero value is an empty cart.
type Cart struct {
	Items []Line `json:"items"`
}

func clamp(qty int) int {
	if qty < 0 {
		return 0
	}
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}

func (c *Cart) index(id string) int {
	for i, l := range c.Items {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Add merges qty into the line for item or appends a new line.
// qty is clamped to [0, MaxQuantity]; zero is a no-op.
func (c *Cart) Add(item catalog.Item, qty int) {
	qty = clamp(qty)
	if qty == 0 {
		return
	}
	if i := c.index(item.ID); i >= 0 {
		c.Items[i].Quantity = clamp(c.Items[i].Quantity + qty)
		return
	}
	c.Items = append(c.Items, Line{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Unit:     item.Unit,
		Category: item.Category,
		Quantity: qty,
	})
}

// SetQuantity clamps qty to [0, MaxQuantity]; zero deletes the line.
// It reports whether a line with id existed.
func (c *Cart) SetQuantity(id string, qty int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	qty = clamp(qty)
	if qty == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = qty
	return true
}

func (c *Cart) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Items {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Summary carries the totals shown next to the checkout button.
type Summary struct {
	TotalItems    int             `json:"totalItems"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Delivery      decimal.Decimal `json:"delivery"`
	Total         decimal.Decimal `json:"total"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MinOrderMet   bool            `json:"minOrderMet"`
	Remaining     decimal.Decimal `json:"remaining"`
}

func (c Cart) Summary() Summary {
	sub := c.Subtotal()
	remaining := catalog.MinOrderValue.Sub(sub)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Summary{
		TotalItems:    c.TotalItems(),
		Subtotal:      sub,
		Delivery:      catalog.DeliveryCharge,
		Total:         sub.Add(catalog.DeliveryCharge),
		MinOrderValue: catalog.MinOrderValue,
		MinOrderMet:   sub.GreaterThanOrEqual(catalog.MinOrderValue),
		Remaining:     remaining,
	}
}
