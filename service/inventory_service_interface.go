package service

import (
	"context"

	"romix-storefront/models"
	"romix-storefront/repository"
)

// InventoryServiceInterface defines the contract for the variant stock ledger
type InventoryServiceInterface interface {
	GetAll(ctx context.Context) []models.Variant
	SaveAll(ctx context.Context, list []models.Variant) []models.Variant
	GetStock(ctx context.Context, productID, color, size string) models.StockLevel
	UpdateMany(ctx context.Context, lines []models.StockLine) models.UpdateResult
	MergeFrom(ctx context.Context, remote []models.Variant) []models.Variant
	SyncFromRemote(ctx context.Context) int
	SeedFromProducts(ctx context.Context, products []models.Product) int
	Invalidate()
	WatchChanges(notifier repository.ChangeNotifierInterface) (stop func())
}
