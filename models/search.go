package models

import (
	"encoding/json"
	"fmt"
)

// Suggestion is one autocomplete entry
type Suggestion struct {
	Name  string   `json:"name"`
	Label string   `json:"type"`
	Slug  string   `json:"slug"`
	Href  string   `json:"href"`
	Score int      `json:"score"`
	Item  *Product `json:"-"`
}

// SearchResponse represents the response of GET /api/search
type SearchResponse struct {
	Query    string    `json:"query"`
	Category string    `json:"category,omitempty"`
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

// StockSummary is the derived availability of a product
type StockSummary struct {
	Total int    `json:"total"`
	State string `json:"state"`
}

// ProductListing pairs a product with its derived stock summary
type ProductListing struct {
	Product
	Stock StockSummary `json:"stock"`
}

// UnmarshalJSON decodes the flattened product and its stock summary.
// Without it the embedded Product's decoder would swallow the whole object.
func (l *ProductListing) UnmarshalJSON(data []byte) error {
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var extra struct {
		Stock StockSummary `json:"stock"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("failed to decode stock summary: %w", err)
	}
	l.Product = p
	l.Stock = extra.Stock
	return nil
}

// ProductListResponse represents the response of GET /api/products
type ProductListResponse struct {
	Total    int              `json:"total"`
	Products []ProductListing `json:"products"`
}

// SuggestResponse represents the response of GET /api/suggest
type SuggestResponse struct {
	Query       string       `json:"query"`
	Suggestions []Suggestion `json:"suggestions"`
	ResultsURL  string       `json:"resultsUrl"`
}
