package models

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	DefaultColor = "Unico"
	DefaultSize  = "U"
)

// CartItem represents one line of the shopping cart.
// Older storefront code wrote quantity/talle and a handful of id aliases; those
// are accepted on decode and only mirrored back on encode.
type CartItem struct {
	Key       string  `json:"key"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Color     string  `json:"color"`
	ColorName string  `json:"colorName"`
	Size      string  `json:"size"`
	Qty       int     `json:"qty"`
	Subtotal  float64 `json:"subtotal"`
}

// cartItemJSON is the wire form written to storage
type cartItemJSON struct {
	Key       string  `json:"key"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Color     string  `json:"color"`
	ColorName string  `json:"colorName"`
	Size      string  `json:"size"`
	Talle     string  `json:"talle"`
	Qty       int     `json:"qty"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// MarshalJSON writes the canonical fields plus the legacy quantity/talle mirrors
func (c CartItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartItemJSON{
		Key:       c.Key,
		ProductID: c.ProductID,
		Name:      c.Name,
		Type:      c.Type,
		Price:     c.Price,
		Image:     c.Image,
		Color:     c.Color,
		ColorName: c.ColorName,
		Size:      c.Size,
		Talle:     c.Size,
		Qty:       c.Qty,
		Quantity:  c.Qty,
		Subtotal:  c.Subtotal,
	})
}

// UnmarshalJSON resolves field aliases. Missing quantity stays 0 and missing
// color/size stay empty; CartService applies the defaults.
func (c *CartItem) UnmarshalJSON(data []byte) error {
	var fields rawFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode cart item: %w", err)
	}

	*c = CartItem{}
	c.Key, _ = fields.str("key")
	c.ProductID, _ = fields.str("productId", "pid", "id", "slug", "sku")
	c.Name, _ = fields.str("name")
	c.Type, _ = fields.str("type")
	c.Image, _ = fields.str("image")
	c.Color, _ = fields.str("color", "colorName", "colorKey")
	c.ColorName, _ = fields.str("colorName")
	c.Size, _ = fields.str("size", "talle", "sizeValue")

	if price, ok := fields.num("price"); ok && finite(price) {
		c.Price = price
	}
	if qty, ok := fields.num("qty", "quantity"); ok && finite(qty) {
		c.Qty = clampInt(qty)
	}
	if subtotal, ok := fields.num("subtotal"); ok && finite(subtotal) {
		c.Subtotal = subtotal
	}
	return nil
}

// CartTotals is the aggregate of the cart lines
type CartTotals struct {
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// UpdateQuantityRequest is the body accepted by PATCH /api/cart/items/:key
type UpdateQuantityRequest struct {
	Qty json.RawMessage `json:"qty"`
}

// CartResponse wraps the cart with its totals
type CartResponse struct {
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}

// ParseQuantity reads a loosely typed quantity (number or numeric string).
// ok is false when nothing usable was given.
func ParseQuantity(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	v := rawNumber(raw)
	if !finite(v) {
		return 0, false
	}
	return clampInt(v), true
}

func clampInt(v float64) int {
	t := math.Trunc(v)
	if t > math.MaxInt32 {
		return math.MaxInt32
	}
	if t < math.MinInt32 {
		return math.MinInt32
	}
	return int(t)
}

// CartMessageResponse carries the encoded order message and its WhatsApp link
type CartMessageResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}
