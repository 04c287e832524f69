package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// StockUnknown is reported when a variant has no entry in the inventory ledger
const StockUnknown = "unknown"

// Variant is one product/color/size combination with its stock
type Variant struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

// UnmarshalJSON accepts the storefront aliases as well as the backend's product_id.
// Color and size default to Unico/U; stock is floored and clamped at zero.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var fields rawFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode variant: %w", err)
	}

	*v = Variant{}
	id, _ := fields.str("productId", "pid", "id", "slug", "product_id")
	v.ProductID = strings.TrimSpace(id)
	v.Color = stringOrDefault(fields, DefaultColor, "color", "colorName")
	v.Size = stringOrDefault(fields, DefaultSize, "size", "talle")

	if stock, ok := fields.num("stock", "quantity"); ok && finite(stock) {
		v.Stock = nonNegative(stock)
	}
	return nil
}

// StockLine is one requested decrement
type StockLine struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

// UnmarshalJSON accepts the same aliases as Variant plus quantity for qty
func (l *StockLine) UnmarshalJSON(data []byte) error {
	var fields rawFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode stock line: %w", err)
	}

	*l = StockLine{}
	id, _ := fields.str("productId", "pid", "id", "slug")
	l.ProductID = strings.TrimSpace(id)
	l.Color = stringOrDefault(fields, DefaultColor, "color", "colorName")
	l.Size = stringOrDefault(fields, DefaultSize, "size", "talle")

	if qty, ok := fields.num("qty", "quantity"); ok && finite(qty) {
		l.Qty = nonNegative(qty)
	}
	return nil
}

// nonNegative floors v into [0, MaxInt32]
func nonNegative(v float64) int {
	return max(0, clampInt(math.Floor(v)))
}

// UpdateResult is returned by a stock decrement. Success is always true; problems
// are reported as warnings.
type UpdateResult struct {
	Success   bool      `json:"success"`
	Warnings  []string  `json:"warnings"`
	Inventory []Variant `json:"inventory"`
}

// StockLevel is either a known stock count or unknown
type StockLevel struct {
	Known bool
	Value int
}

// MarshalJSON writes the number, or "unknown"
func (s StockLevel) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return json.Marshal(StockUnknown)
	}
	return json.Marshal(s.Value)
}

func (s StockLevel) String() string {
	if !s.Known {
		return StockUnknown
	}
	return fmt.Sprintf("%d", s.Value)
}

func stringOrDefault(fields rawFields, def string, names ...string) string {
	s, ok := fields.str(names...)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// StockResponse represents the response of GET /api/variants/stock
type StockResponse struct {
	ProductID string     `json:"productId"`
	Color     string     `json:"color"`
	Size      string     `json:"size"`
	Stock     StockLevel `json:"stock"`
}

// SyncResponse represents the response of POST /api/variants/sync
type SyncResponse struct {
	Received  int       `json:"received"`
	Inventory []Variant `json:"inventory"`
}
