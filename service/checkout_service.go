package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"romix-storefront/models"
)

// ErrEmptyCart is returned when checking out a cart without items
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutService turns the cart into an order: stock is decremented for every
// line that can be served and the order message is built for the WhatsApp handoff
type CheckoutService struct {
	cart      CartServiceInterface
	inventory InventoryServiceInterface
	phone     string
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(cart CartServiceInterface, inventory InventoryServiceInterface, phone string) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		inventory: inventory,
		phone:     phone,
	}
}

// Checkout places an order for the current cart. The cart is cleared only when
// every line was applied; otherwise it is kept so the customer can adjust it.
func (s *CheckoutService) Checkout(ctx context.Context) (*models.Order, error) {
	items := s.cart.Get(ctx)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]models.StockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.StockLine{
			ProductID: item.ProductID,
			Color:     item.Color,
			Size:      item.Size,
			Qty:       item.Qty,
		})
	}

	result := s.inventory.UpdateMany(ctx, lines)
	order := &models.Order{
		OrderID:         uuid.NewString(),
		Items:           items,
		Totals:          s.cart.Totals(items),
		Warnings:        result.Warnings,
		UpdatedVariants: result.Inventory,
		Message:         s.cart.BuildOrderMessage(items),
		Link:            s.cart.WhatsAppLink(s.phone, items),
	}
	if order.Warnings == nil {
		order.Warnings = []string{}
	}

	if len(order.Warnings) == 0 {
		s.cart.Clear(ctx)
		log.Printf("✅ Checkout: order %s placed (%d items)", order.OrderID, order.Totals.TotalItems)
	} else {
		log.Printf("⚠️ Checkout: order %s placed with %d warnings, cart kept", order.OrderID, len(order.Warnings))
	}
	return order, nil
}
