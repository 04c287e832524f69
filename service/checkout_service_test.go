package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romix-storefront/models"
	"romix-storefront/repository"
)

func newCheckout(t *testing.T) (*CheckoutService, *CartService, *InventoryService) {
	t.Helper()
	store := repository.NewMemoryStore()
	cart := NewCartService(store)
	inventory := NewInventoryService(store, nil)
	return NewCheckoutService(cart, inventory, "5491100000000"), cart, inventory
}

func TestCheckoutEmptyCart(t *testing.T) {
	checkout, _, _ := newCheckout(t)
	_, err := checkout.Checkout(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutPlacesOrder(t *testing.T) {
	ctx := context.Background()
	checkout, cart, inventory := newCheckout(t)
	inventory.SaveAll(ctx, []models.Variant{{ProductID: "A", Color: "Negro", Size: "M", Stock: 5}})
	cart.Add(ctx, models.CartItem{ProductID: "A", Name: "Calza", Color: "negro", Size: "m", Price: 1000, Qty: 2})

	order, err := checkout.Checkout(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(order.OrderID)
	assert.NoError(t, err)
	assert.Empty(t, order.Warnings)
	assert.Equal(t, models.CartTotals{TotalItems: 2, TotalPrice: 2000}, order.Totals)
	assert.NotEmpty(t, order.Message)
	assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/5491100000000?text="))
	require.Len(t, order.UpdatedVariants, 1)
	assert.Equal(t, 3, order.UpdatedVariants[0].Stock)

	assert.Equal(t, 3, inventory.GetStock(ctx, "A", "Negro", "M").Value)
	assert.Empty(t, cart.Get(ctx))
}

func TestCheckoutKeepsCartOnWarnings(t *testing.T) {
	ctx := context.Background()
	checkout, cart, inventory := newCheckout(t)
	inventory.SaveAll(ctx, []models.Variant{{ProductID: "A", Stock: 1}})
	cart.Add(ctx, models.CartItem{ProductID: "A", Price: 10, Qty: 1})
	cart.Add(ctx, models.CartItem{ProductID: "B", Price: 10, Qty: 1})

	order, err := checkout.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stock desconocido para B - Unico / U."}, order.Warnings)
	assert.Equal(t, 0, inventory.GetStock(ctx, "A", "", "").Value)
	assert.Len(t, cart.Get(ctx), 2)
}
