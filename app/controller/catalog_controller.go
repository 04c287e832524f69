package controller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"romix-storefront/models"
	"romix-storefront/repository"
	"romix-storefront/service"
)

// CatalogController handles HTTP requests for catalog listings
type CatalogController struct {
	catalog  *service.CatalogService
	products service.ProductStoreInterface
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalog *service.CatalogService, products service.ProductStoreInterface) *CatalogController {
	return &CatalogController{
		catalog:  catalog,
		products: products,
	}
}

// validSorts is a map of valid sort values
var validSorts = map[string]bool{
	"":                    true,
	service.SortPriceAsc:  true,
	service.SortPriceDesc: true,
}

// ListProducts handles GET /api/products?section=&season=&type=&size=&color=&q=&sort=
// type, size and color accept repeated parameters or comma separated values
func (c *CatalogController) ListProducts(ctx *gin.Context) {
	log.Printf("📥 ListProducts: Received %s request to %s", ctx.Request.Method, ctx.Request.URL.String())

	sortBy := strings.TrimSpace(ctx.Query("sort"))
	if !validSorts[sortBy] {
		log.Printf("❌ ListProducts: Invalid sort: %s", sortBy)
		ctx.JSON(http.StatusBadRequest, errorResponse("sort must be one of: price-asc, price-desc"))
		return
	}

	opts := service.ListOptions{
		Section: ctx.Query("section"),
		Season:  ctx.Query("season"),
		Types:   queryList(ctx, "type"),
		Sizes:   queryList(ctx, "size"),
		Colors:  queryList(ctx, "color"),
		Query:   ctx.Query("q"),
		Sort:    sortBy,
	}

	listings := c.catalog.Listings(ctx.Request.Context(), opts)
	log.Printf("✅ ListProducts: Returning %d products", len(listings))

	ctx.JSON(http.StatusOK, models.ProductListResponse{
		Total:    len(listings),
		Products: listings,
	})
}

// GetProduct handles GET /api/products/:slug
func (c *CatalogController) GetProduct(ctx *gin.Context) {
	slug := ctx.Param("slug")
	log.Printf("📥 GetProduct: Received %s request for slug=%s", ctx.Request.Method, slug)

	product, err := c.catalog.FindBySlug(ctx.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("❌ GetProduct: Product not found: %s", slug)
			ctx.JSON(http.StatusNotFound, errorResponse("product not found"))
			return
		}
		log.Printf("❌ GetProduct: Error finding product: %v", err)
		ctx.JSON(http.StatusInternalServerError, errorResponse("failed to get product"))
		return
	}

	ctx.JSON(http.StatusOK, models.ProductListing{
		Product: product,
		Stock:   service.StockSummary(product),
	})
}

// ClearCache handles POST /api/cache/clear
func (c *CatalogController) ClearCache(ctx *gin.Context) {
	log.Printf("📥 ClearCache: Received %s request", ctx.Request.Method)
	c.products.Clear(ctx.Request.Context())
	log.Printf("✅ ClearCache: Catalog caches cleared")
	ctx.JSON(http.StatusOK, gin.H{"cleared": true})
}

// Page handles GET /catalogo and GET /catalogo/:section
// It serves an HTML page embedding the section's products as inline JSON
func (c *CatalogController) Page(ctx *gin.Context) {
	section := ctx.Param("section")
	log.Printf("📥 CatalogPage: Received %s request for section=%q", ctx.Request.Method, section)

	page, err := c.catalog.RenderPreloadedPage(ctx.Request.Context(), section)
	if err != nil {
		log.Printf("❌ CatalogPage: Error rendering page: %v", err)
		ctx.JSON(http.StatusInternalServerError, errorResponse("failed to render catalog page"))
		return
	}
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// queryList collects repeated and comma separated values of a query parameter
func queryList(ctx *gin.Context, key string) []string {
	var out []string
	for _, raw := range ctx.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
