package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"romix-storefront/models"
	"romix-storefront/repository"
	"romix-storefront/utils"
)

// CartService handles the persisted shopping cart
// Implements CartServiceInterface
type CartService struct {
	store repository.KeyValueStoreInterface
	mu    sync.Mutex
}

// NewCartService creates a new CartService
func NewCartService(store repository.KeyValueStoreInterface) *CartService {
	return &CartService{store: store}
}

// Ensure CartService implements CartServiceInterface
var _ CartServiceInterface = (*CartService)(nil)

// NormalizeCartItem fills defaults, computes the composite key when missing and
// recomputes the subtotal
func NormalizeCartItem(item models.CartItem) models.CartItem {
	out := item
	if out.Qty < 1 {
		out.Qty = 1
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = models.DefaultColor
	}
	if out.ColorName == "" {
		out.ColorName = out.Color
	}
	if strings.TrimSpace(out.Size) == "" {
		out.Size = models.DefaultSize
	}
	if out.Key == "" {
		out.Key = BuildKey(out.ProductID, out.Color, out.Size)
	}
	out.Subtotal = out.Price * float64(out.Qty)
	return out
}

// Get returns the normalized cart. Items left under the legacy key are migrated
// the first time the canonical key is found empty.
func (s *CartService) Get(ctx context.Context) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx)
}

func (s *CartService) get(ctx context.Context) []models.CartItem {
	if stored := s.read(ctx, CartStorageKey); len(stored) > 0 {
		return s.persist(ctx, stored)
	}
	return s.migrateLegacy(ctx)
}

func (s *CartService) migrateLegacy(ctx context.Context) []models.CartItem {
	legacy := s.read(ctx, LegacyCartKey)
	if len(legacy) == 0 {
		return []models.CartItem{}
	}

	log.Printf("🔄 Cart: migrating %d items from legacy key %q", len(legacy), LegacyCartKey)
	migrated := s.persist(ctx, legacy)
	if err := s.store.Remove(ctx, LegacyCartKey); err != nil {
		log.Printf("⚠️ Cart: failed to remove legacy key: %v", err)
	}
	return migrated
}

// Save normalizes and persists the whole list
func (s *CartService) Save(ctx context.Context, list []models.CartItem) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, list)
}

// Add appends an item, or merges it into the line with the same key. Quantities
// accumulate; every other field takes the new item's value.
func (s *CartService) Add(ctx context.Context, item models.CartItem) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(ctx)
	added := NormalizeCartItem(item)

	for i, existing := range cart {
		if existing.Key != added.Key {
			continue
		}
		qty := existing.Qty + added.Qty
		merged := added
		merged.Qty = qty
		merged.Subtotal = float64(qty) * added.Price
		cart[i] = merged
		log.Printf("📦 Cart: %s now x%d", merged.Key, qty)
		return s.persist(ctx, cart)
	}

	log.Printf("📦 Cart: added %s x%d", added.Key, added.Qty)
	return s.persist(ctx, append(cart, added))
}

// Remove drops the line with the given key
func (s *CartService) Remove(ctx context.Context, key string) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(ctx)
	kept := cart[:0]
	for _, item := range cart {
		if item.Key != key {
			kept = append(kept, item)
		}
	}
	return s.persist(ctx, kept)
}

// UpdateQuantity sets the quantity of one line; values below 1 become 1
func (s *CartService) UpdateQuantity(ctx context.Context, key string, qty int) []models.CartItem {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.get(ctx)
	for i := range cart {
		if cart[i].Key == key {
			cart[i].Qty = qty
			cart[i].Subtotal = float64(qty) * cart[i].Price
		}
	}
	return s.persist(ctx, cart)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, nil)
}

// Totals sums quantities and prices of list
func (s *CartService) Totals(list []models.CartItem) models.CartTotals {
	var totals models.CartTotals
	for _, item := range list {
		totals.TotalItems += item.Qty
		totals.TotalPrice += float64(item.Qty) * item.Price
	}
	return totals
}

// BuildOrderMessage renders the cart as a percent-encoded order message.
// An empty cart gives an empty string.
func (s *CartService) BuildOrderMessage(list []models.CartItem) string {
	if len(list) == 0 {
		return ""
	}

	lines := make([]string, 0, len(list)+1)
	for _, item := range list {
		name := item.Name
		if name == "" {
			name = "Producto"
		}
		parts := []string{"- " + name}
		if item.Color != "" {
			parts = append(parts, "Color: "+item.Color)
		}
		if item.Size != "" {
			parts = append(parts, "Talle: "+item.Size)
		}
		parts = append(parts,
			fmt.Sprintf("Cant: %d", item.Qty),
			"Subtotal: $"+utils.FormatARS(float64(item.Qty)*item.Price),
		)
		lines = append(lines, strings.Join(parts, " | "))
	}

	totals := s.Totals(list)
	lines = append(lines, fmt.Sprintf("\nTotal (%d uds): $%s", totals.TotalItems, utils.FormatARS(totals.TotalPrice)))
	return utils.EncodeURIComponent(strings.Join(lines, "\n"))
}

// WhatsAppLink returns a wa.me deep link carrying the order message
func (s *CartService) WhatsAppLink(phone string, list []models.CartItem) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	link := "https://wa.me/" + digits
	if msg := s.BuildOrderMessage(list); msg != "" {
		link += "?text=" + msg
	}
	return link
}

// read decodes a stored list. Anything malformed reads as empty.
func (s *CartService) read(ctx context.Context, key string) []models.CartItem {
	data, found, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️ Cart: failed to read %s: %v", key, err)
		return nil
	}
	if !found {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("⚠️ Cart: ignoring malformed %s: %v", key, err)
		return nil
	}

	items := make([]models.CartItem, 0, len(raw))
	for _, entry := range raw {
		if !isJSONObject(entry) {
			continue
		}
		var item models.CartItem
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

// persist normalizes list and writes it under the canonical key. Write failures
// are logged; the normalized list is returned either way.
func (s *CartService) persist(ctx context.Context, list []models.CartItem) []models.CartItem {
	normalized := make([]models.CartItem, 0, len(list))
	for _, item := range list {
		normalized = append(normalized, NormalizeCartItem(item))
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		log.Printf("❌ Cart: failed to encode cart: %v", err)
		return normalized
	}
	if err := s.store.Set(ctx, CartStorageKey, data); err != nil {
		log.Printf("❌ Cart: failed to persist cart: %v", err)
	}
	return normalized
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}
