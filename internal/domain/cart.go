package domain

import (
	"github.com/shopspring/decimal"
)

// Shipping is charged per parcel: a base fee for the first item and a flat
// step for every additional one.
var (
	ShippingBase = decimal.NewFromInt(350)
	ShippingStep = decimal.NewFromInt(50)
)

type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	ImageRef  string          `json:"imageRef,omitempty"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// sameVariant matches the merge key for cart lines: two additions of the
// same product in the same color and size collapse into one line.
func (i CartItem) sameVariant(productID, color, size string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size
}

type Cart struct {
	SessionID string     `json:"sessionId"`
	Items     []CartItem `json:"items"`
}

// AddItem appends item to the cart, merging quantities into an existing line
// when product, color and size all match. Quantities below one never insert.
func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	if item.ProductID == "" {
		return NewValidationError("productId", "is required")
	}
	for idx := range c.Items {
		if c.Items[idx].sameVariant(item.ProductID, item.Color, item.Size) {
			c.Items[idx].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// RemoveItem drops every line for productID regardless of variant. Removing
// an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity on every line for productID. Quantities
// below one are rejected rather than coerced.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
		}
	}
	return nil
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (c *Cart) ShippingCost() decimal.Decimal {
	n := c.TotalItems()
	if n == 0 {
		return decimal.Zero
	}
	return ShippingBase.Add(ShippingStep.Mul(decimal.NewFromInt(int64(n - 1))))
}

func (c *Cart) GrandTotal() decimal.Decimal {
	return c.Subtotal().Add(c.ShippingCost())
}

// ShippingCostForItems is the same parcel fee applied to an order's item
// snapshot at creation time.
func ShippingCostForItems(items []OrderItem) decimal.Decimal {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	if n == 0 {
		return decimal.Zero
	}
	return ShippingBase.Add(ShippingStep.Mul(decimal.NewFromInt(int64(n - 1))))
}

func SubtotalForItems(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
