package controller

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"romix-storefront/models"
	"romix-storefront/service"
)

// InventoryController handles HTTP requests for variant stock
type InventoryController struct {
	inventory service.InventoryServiceInterface
}

// NewInventoryController creates a new InventoryController
func NewInventoryController(inventory service.InventoryServiceInterface) *InventoryController {
	return &InventoryController{
		inventory: inventory,
	}
}

// ListVariants handles GET /api/variants
func (c *InventoryController) ListVariants(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.inventory.GetAll(ctx.Request.Context()))
}

// GetStock handles GET /api/variants/stock?productId=&color=&size=
// Variants missing from the ledger report "unknown"
func (c *InventoryController) GetStock(ctx *gin.Context) {
	productID := strings.TrimSpace(ctx.Query("productId"))
	color := strings.TrimSpace(ctx.Query("color"))
	size := strings.TrimSpace(ctx.Query("size"))
	log.Printf("🔍 GetStock: productId=%s color=%s size=%s", productID, color, size)

	if productID == "" {
		log.Printf("❌ GetStock: productId is required")
		ctx.JSON(http.StatusBadRequest, errorResponse("query param productId is required"))
		return
	}
	if color == "" {
		color = models.DefaultColor
	}
	if size == "" {
		size = models.DefaultSize
	}

	ctx.JSON(http.StatusOK, models.StockResponse{
		ProductID: productID,
		Color:     color,
		Size:      size,
		Stock:     c.inventory.GetStock(ctx.Request.Context(), productID, color, size),
	})
}

// Decrement handles POST /api/variants/decrement
// Lines that cannot be served are reported as warnings, never as an error status
func (c *InventoryController) Decrement(ctx *gin.Context) {
	log.Printf("📥 Decrement: Received %s request to %s", ctx.Request.Method, ctx.Request.URL.Path)

	var req models.DecrementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ Decrement: Failed to decode request body: %v", err)
		ctx.JSON(http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	result := c.inventory.UpdateMany(ctx.Request.Context(), req.Items)
	log.Printf("✅ Decrement: %d lines requested, %d warnings", len(req.Items), len(result.Warnings))
	ctx.JSON(http.StatusOK, result)
}

// Sync handles POST /api/variants/sync
func (c *InventoryController) Sync(ctx *gin.Context) {
	log.Printf("📥 Sync: Received %s request", ctx.Request.Method)

	received := c.inventory.SyncFromRemote(ctx.Request.Context())
	ctx.JSON(http.StatusOK, models.SyncResponse{
		Received:  received,
		Inventory: c.inventory.GetAll(ctx.Request.Context()),
	})
}
