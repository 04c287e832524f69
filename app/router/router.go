package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"romix-storefront/app/controller"
)

type Controllers struct {
	Health    *controller.HealthController
	Catalog   *controller.CatalogController
	Search    *controller.SearchController
	Cart      *controller.CartController
	Inventory *controller.InventoryController
	Order     *controller.OrderController
}

// SetupRoutes registers every storefront route on a new gin engine
func SetupRoutes(controllers *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// The static storefront is served from other origins
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	api := r.Group("/api")

	api.GET("/health", controllers.Health.Health)

	// Catalog
	api.GET("/products", controllers.Catalog.ListProducts)
	api.GET("/products/:slug", controllers.Catalog.GetProduct)
	api.POST("/cache/clear", controllers.Catalog.ClearCache)

	// Search
	api.GET("/search", controllers.Search.Search)
	api.GET("/suggest", controllers.Search.Suggest)

	// Cart
	api.GET("/cart", controllers.Cart.GetCart)
	api.POST("/cart/items", controllers.Cart.AddItem)
	api.PATCH("/cart/items/:key", controllers.Cart.UpdateQuantity)
	api.DELETE("/cart/items/:key", controllers.Cart.RemoveItem)
	api.DELETE("/cart", controllers.Cart.ClearCart)
	api.GET("/cart/message", controllers.Cart.Message)

	// Variant stock
	api.GET("/variants", controllers.Inventory.ListVariants)
	api.GET("/variants/stock", controllers.Inventory.GetStock)
	api.POST("/variants/decrement", controllers.Inventory.Decrement)
	api.POST("/variants/sync", controllers.Inventory.Sync)

	// Orders
	api.POST("/orders", controllers.Order.CreateOrder)

	// Catalog page with the embedded product payload
	r.GET("/catalogo", controllers.Catalog.Page)
	r.GET("/catalogo/:section", controllers.Catalog.Page)

	return r
}
