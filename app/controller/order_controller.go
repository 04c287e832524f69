package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"romix-storefront/service"
)

// OrderController handles checkout
type OrderController struct {
	checkout *service.CheckoutService
}

// NewOrderController creates a new OrderController
func NewOrderController(checkout *service.CheckoutService) *OrderController {
	return &OrderController{
		checkout: checkout,
	}
}

// CreateOrder handles POST /api/orders
// Places an order for the current cart and returns the WhatsApp handoff link
func (c *OrderController) CreateOrder(ctx *gin.Context) {
	log.Printf("📥 CreateOrder: Received %s request to %s", ctx.Request.Method, ctx.Request.URL.Path)

	order, err := c.checkout.Checkout(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			log.Printf("❌ CreateOrder: Cart is empty")
			ctx.JSON(http.StatusBadRequest, errorResponse("cart is empty"))
			return
		}
		log.Printf("❌ CreateOrder: Error placing order: %v", err)
		ctx.JSON(http.StatusInternalServerError, errorResponse("failed to place order"))
		return
	}

	log.Printf("✅ CreateOrder: Order %s created with %d warnings", order.OrderID, len(order.Warnings))
	ctx.JSON(http.StatusCreated, order)
}
