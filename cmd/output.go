package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"romix-storefront/models"
	"romix-storefront/utils"
)

// writeJSON prints v indented
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// output prints v as JSON when --json is set, otherwise the text from format
func output(w io.Writer, v any, format func() string) error {
	if jsonOutput {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprint(w, format())
	return err
}

// formatProducts renders one product per line:
//
//	📦 3 products
//	  Calza Lycra · Calza · mujer · $8.900 · available (5)
func formatProducts(list []models.ProductListing) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 %d products\n", len(list)))
	for _, p := range list {
		sb.WriteString("  " + productLine(p.Product))
		sb.WriteString(fmt.Sprintf(" · %s (%d)\n", p.Stock.State, p.Stock.Total))
	}
	return sb.String()
}

func formatSearch(res models.SearchResponse) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔍 %d results for %q\n", res.Total, res.Query))
	for _, p := range res.Products {
		sb.WriteString("  " + productLine(p) + "\n")
	}
	return sb.String()
}

func productLine(p models.Product) string {
	parts := []string{p.Name}
	if p.Type != "" {
		parts = append(parts, p.Type)
	}
	if p.Section != "" {
		parts = append(parts, p.Section)
	}
	parts = append(parts, "$"+utils.FormatARS(p.Price))
	return strings.Join(parts, " · ")
}

func formatSuggestions(items []models.Suggestion, active int) string {
	if len(items) == 0 {
		return "  (no suggestions)\n"
	}
	var sb strings.Builder
	for i, s := range items {
		marker := "  "
		if i == active {
			marker = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%s  [%s]\n", marker, s.Name, s.Label))
	}
	return sb.String()
}

func formatCart(res models.CartResponse) string {
	if len(res.Items) == 0 {
		return "🛒 cart is empty\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 %d items · $%s\n", res.Totals.TotalItems, utils.FormatARS(res.Totals.TotalPrice)))
	for _, item := range res.Items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		sb.WriteString(fmt.Sprintf("  %s  %s · %s / %s · x%d · $%s\n",
			item.Key, name, item.ColorName, item.Size, item.Qty, utils.FormatARS(item.Subtotal)))
	}
	return sb.String()
}

// formatMessage shows the decoded order text followed by the link
func formatMessage(res models.CartMessageResponse) string {
	if res.Message == "" {
		return "🛒 cart is empty\n"
	}
	text, err := url.PathUnescape(res.Message)
	if err != nil {
		text = res.Message
	}
	return text + "\n\n" + res.Link + "\n"
}

func formatVariants(list []models.Variant) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 %d variants\n", len(list)))
	for _, v := range list {
		sb.WriteString(fmt.Sprintf("  %s · %s / %s · %d\n", v.ProductID, v.Color, v.Size, v.Stock))
	}
	return sb.String()
}

func formatUpdate(res models.UpdateResult) string {
	if len(res.Warnings) == 0 {
		return "✅ stock updated\n"
	}
	var sb strings.Builder
	for _, w := range res.Warnings {
		sb.WriteString("⚠️ " + w + "\n")
	}
	return sb.String()
}

func formatOrder(o *models.Order) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ order %s · %d items · $%s\n", o.OrderID, o.Totals.TotalItems, utils.FormatARS(o.Totals.TotalPrice)))
	for _, w := range o.Warnings {
		sb.WriteString("⚠️ " + w + "\n")
	}
	if len(o.Warnings) > 0 {
		sb.WriteString("cart kept, adjust it and order again\n")
	}
	sb.WriteString(o.Link + "\n")
	return sb.String()
}
