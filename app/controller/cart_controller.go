package controller

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"romix-storefront/models"
	"romix-storefront/service"
)

// CartController handles HTTP requests for the shopping cart
type CartController struct {
	cart  service.CartServiceInterface
	phone string
}

// NewCartController creates a new CartController
func NewCartController(cart service.CartServiceInterface, phone string) *CartController {
	return &CartController{
		cart:  cart,
		phone: phone,
	}
}

func (c *CartController) respond(ctx *gin.Context, items []models.CartItem) {
	ctx.JSON(http.StatusOK, models.CartResponse{
		Items:  items,
		Totals: c.cart.Totals(items),
	})
}

// GetCart handles GET /api/cart
func (c *CartController) GetCart(ctx *gin.Context) {
	c.respond(ctx, c.cart.Get(ctx.Request.Context()))
}

// AddItem handles POST /api/cart/items
// Adding an item already in the cart accumulates its quantity
func (c *CartController) AddItem(ctx *gin.Context) {
	log.Printf("📥 AddItem: Received %s request to %s", ctx.Request.Method, ctx.Request.URL.Path)

	var item models.CartItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		log.Printf("❌ AddItem: Failed to decode request body: %v", err)
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		log.Printf("❌ AddItem: productId cannot be empty")
		ctx.JSON(http.StatusBadRequest, errorResponse("productId cannot be empty"))
		return
	}
	if item.Price < 0 {
		log.Printf("❌ AddItem: Invalid price: %v", item.Price)
		ctx.JSON(http.StatusBadRequest, errorResponse("price cannot be negative"))
		return
	}

	items := c.cart.Add(ctx.Request.Context(), item)
	log.Printf("✅ AddItem: Cart has %d lines", len(items))
	c.respond(ctx, items)
}

// UpdateQuantity handles PATCH /api/cart/items/:key
// qty may be a number or a numeric string; anything else, or a value below 1, becomes 1
func (c *CartController) UpdateQuantity(ctx *gin.Context) {
	key := ctx.Param("key")
	log.Printf("📥 UpdateQuantity: Received %s request for key=%s", ctx.Request.Method, key)

	var req models.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ UpdateQuantity: Failed to decode request body: %v", err)
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	qty, ok := models.ParseQuantity(req.Qty)
	if !ok {
		log.Printf("⚠️ UpdateQuantity: Non-numeric qty %s, using 1", string(req.Qty))
		qty = 1
	}

	c.respond(ctx, c.cart.UpdateQuantity(ctx.Request.Context(), key, qty))
}

// RemoveItem handles DELETE /api/cart/items/:key
func (c *CartController) RemoveItem(ctx *gin.Context) {
	key := ctx.Param("key")
	log.Printf("📥 RemoveItem: Received %s request for key=%s", ctx.Request.Method, key)
	c.respond(ctx, c.cart.Remove(ctx.Request.Context(), key))
}

// ClearCart handles DELETE /api/cart
func (c *CartController) ClearCart(ctx *gin.Context) {
	log.Printf("📥 ClearCart: Received %s request", ctx.Request.Method)
	c.respond(ctx, c.cart.Clear(ctx.Request.Context()))
}

// Message handles GET /api/cart/message
func (c *CartController) Message(ctx *gin.Context) {
	items := c.cart.Get(ctx.Request.Context())
	ctx.JSON(http.StatusOK, models.CartMessageResponse{
		Message: c.cart.BuildOrderMessage(items),
		Link:    c.cart.WhatsAppLink(c.phone, items),
	})
}
