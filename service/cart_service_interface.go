package service

import (
	"context"

	"romix-storefront/models"
)

// CartServiceInterface defines the contract for the shopping cart ledger.
// Every mutation returns the cart as persisted.
type CartServiceInterface interface {
	Get(ctx context.Context) []models.CartItem
	Save(ctx context.Context, list []models.CartItem) []models.CartItem
	Add(ctx context.Context, item models.CartItem) []models.CartItem
	Remove(ctx context.Context, key string) []models.CartItem
	UpdateQuantity(ctx context.Context, key string, qty int) []models.CartItem
	Clear(ctx context.Context) []models.CartItem
	Totals(list []models.CartItem) models.CartTotals
	BuildOrderMessage(list []models.CartItem) string
	WhatsAppLink(phone string, list []models.CartItem) string
}
