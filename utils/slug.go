package utils

import (
	"net/url"
	"strings"

	"romix-storefront/models"
)

// Slugify builds the URL slug for a product name: repaired, normalized, with
// every run outside [a-z0-9] collapsed to a single hyphen.
func Slugify(name string) string {
	return strings.Join(Tokenize(FixUTF8(strings.TrimSpace(name))), "-")
}

// ProductID returns the product's id, or the slug of its name when it has none
func ProductID(p models.Product) string {
	if p.ID != "" {
		return p.ID
	}
	return Slugify(p.Name)
}

// DetailURL builds the product detail page reference.
func DetailURL(p models.Product) string {
	slug := Slugify(p.Name)
	return "product.html?id=" + EncodeURIComponent(ProductID(p)) +
		"&slug=" + EncodeURIComponent(slug) +
		"&name=" + EncodeURIComponent(FixUTF8(p.Name))
}

// EncodeURIComponent percent-encodes s the way browsers do for a single URI
// component (spaces as %20, and !'()* left alone).
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, keep := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(keep), keep)
	}
	return escaped
}
