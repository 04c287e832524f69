package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Product represents a catalog entry as served by the products endpoint or the static data file
type Product struct {
	ID           string                    `json:"id,omitempty"`
	Slug         string                    `json:"slug,omitempty"`
	Name         string                    `json:"name"`
	Type         string                    `json:"type,omitempty"`
	Section      string                    `json:"section,omitempty"`
	Price        float64                   `json:"price"`
	Badge        string                    `json:"badge,omitempty"`
	Description  string                    `json:"description,omitempty"`
	Season       string                    `json:"season,omitempty"`
	Image        string                    `json:"image,omitempty"`
	Colors       []Color                   `json:"colors,omitempty"`
	Sizes        []Size                    `json:"sizes,omitempty"`
	StockByColor map[string]map[string]int `json:"stockByColor,omitempty"`
}

// Color is a selectable color of a product
type Color struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Size is a selectable size with its availability status (available, low, out)
type Size struct {
	Size   string `json:"size"`
	Status string `json:"status,omitempty"`
}

// UnmarshalJSON accepts numeric ids and prices, and colors/sizes given either as
// objects, plain strings, or (for colors) a name-to-image map.
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields rawFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode product: %w", err)
	}

	*p = Product{}
	p.ID, _ = fields.str("id")
	p.Slug, _ = fields.str("slug")
	p.Name, _ = fields.str("name")
	p.Type, _ = fields.str("type")
	p.Section, _ = fields.str("section")
	p.Badge, _ = fields.str("badge")
	p.Description, _ = fields.str("description")
	p.Season, _ = fields.str("season")
	p.Image, _ = fields.str("image", "img")

	if price, ok := fields.num("price"); ok && finite(price) {
		p.Price = price
	}

	if raw, ok := fields.first("colors"); ok {
		p.Colors = decodeColors(raw)
	}
	if raw, ok := fields.first("sizes"); ok {
		p.Sizes = decodeSizes(raw)
	}
	if raw, ok := fields.first("stockByColor"); ok {
		var stock map[string]map[string]int
		if err := json.Unmarshal(raw, &stock); err == nil {
			p.StockByColor = stock
		}
	}
	return nil
}

func decodeColors(raw json.RawMessage) []Color {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		colors := make([]Color, 0, len(list))
		for _, entry := range list {
			var obj rawFields
			if err := json.Unmarshal(entry, &obj); err == nil {
				c := Color{}
				c.ID, _ = obj.str("id", "colorId", "variantId", "variant_id")
				c.Name, _ = obj.str("name", "value")
				c.Image, _ = obj.str("image", "url")
				colors = append(colors, c)
				continue
			}
			colors = append(colors, Color{Name: strings.TrimSpace(rawString(entry))})
		}
		return colors
	}

	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err == nil {
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)
		colors := make([]Color, 0, len(names))
		for _, name := range names {
			colors = append(colors, Color{Name: strings.TrimSpace(name), Image: byName[name]})
		}
		return colors
	}
	return nil
}

func decodeSizes(raw json.RawMessage) []Size {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	sizes := make([]Size, 0, len(list))
	for _, entry := range list {
		var obj rawFields
		if err := json.Unmarshal(entry, &obj); err == nil {
			s := Size{}
			s.Size, _ = obj.str("size", "name", "value")
			s.Status, _ = obj.str("status")
			sizes = append(sizes, s)
			continue
		}
		sizes = append(sizes, Size{Size: strings.TrimSpace(rawString(entry))})
	}
	return sizes
}
