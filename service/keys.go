package service

import (
	"strings"

	"romix-storefront/utils"
)

// Storage keys shared with the storefront pages
const (
	CartStorageKey      = "romix_cart"
	LegacyCartKey       = "cart"
	InventoryStorageKey = "romixVariantStock"
	ProductsCacheKey    = "romixProductsCacheV1"
)

// BuildKey returns the composite key productId|color|size used by both the cart and
// the inventory ledger. Color and size are normalized so casing and accents do not matter.
func BuildKey(productID, color, size string) string {
	return strings.Join([]string{productID, utils.Normalize(color), utils.Normalize(size)}, "|")
}
