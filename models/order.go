package models

// Order is the result of a checkout
type Order struct {
	OrderID         string     `json:"orderId"`
	Items           []CartItem `json:"items"`
	Totals          CartTotals `json:"totals"`
	Warnings        []string   `json:"warnings"`
	UpdatedVariants []Variant  `json:"updatedVariants"`
	Message         string     `json:"message"`
	Link            string     `json:"link,omitempty"`
}

// DecrementRequest represents the body of POST /api/variants/decrement
type DecrementRequest struct {
	Items []StockLine `json:"items"`
}
