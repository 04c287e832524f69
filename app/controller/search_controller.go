package controller

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"romix-storefront/models"
	"romix-storefront/search"
	"romix-storefront/service"
)

// SearchController handles free-text search and autocomplete
type SearchController struct {
	engine   *search.Engine
	products service.ProductStoreInterface
}

// NewSearchController creates a new SearchController
func NewSearchController(engine *search.Engine, products service.ProductStoreInterface) *SearchController {
	return &SearchController{
		engine:   engine,
		products: products,
	}
}

// Search handles GET /api/search?q=&category=
func (c *SearchController) Search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	category := strings.TrimSpace(ctx.Query("category"))
	log.Printf("📥 Search: Received %s request q=%q category=%q", ctx.Request.Method, q, category)

	if q == "" {
		log.Printf("❌ Search: q is required")
		ctx.JSON(http.StatusBadRequest, errorResponse("query param q is required"))
		return
	}

	products := c.products.Load(ctx.Request.Context(), service.LoadOptions{})
	results := c.engine.Search(products, q, search.Options{Category: category})
	log.Printf("🔍 Search: %d of %d products match %q", len(results), len(products), q)

	ctx.JSON(http.StatusOK, models.SearchResponse{
		Query:    q,
		Category: category,
		Total:    len(results),
		Products: results,
	})
}

// Suggest handles GET /api/suggest?q=
// Queries shorter than the minimum length get an empty list, not an error
func (c *SearchController) Suggest(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))

	var items []models.Suggestion
	if q != "" {
		products := c.products.Load(ctx.Request.Context(), service.LoadOptions{})
		items = c.engine.Suggest(products, q)
	}
	if items == nil {
		items = []models.Suggestion{}
	}

	ctx.JSON(http.StatusOK, models.SuggestResponse{
		Query:       q,
		Suggestions: items,
		ResultsURL:  search.ResultsURL(q),
	})
}
