package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romix-storefront/config"
	"romix-storefront/models"
	"romix-storefront/service"
)

const catalogJSON = `[
  {"id":"c1","name":"Calza Lycra","type":"Calza","section":"mujer","price":8900,
   "colors":["Negro"],"sizes":[{"size":"M","status":"available"}]},
  {"id":"j1","name":"Jogger Rustico","type":"Pantalon","section":"hombre","price":12000,
   "colors":["Gris"],"sizes":["L"]},
  {"id":"b1","name":"Buzo Polar","section":"hombre","price":15000}
]`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(data, []byte(catalogJSON), 0o644))

	return &config.Config{
		Port:          "8080",
		DataFile:      data,
		UseAPI:        true,
		StoreDriver:   DriverMemory,
		StorePath:     filepath.Join(dir, "store.db"),
		SessionTTL:    time.Minute,
		HiddenPolicy:  "keyword",
		HiddenSeason:  "invierno",
		WhatsAppPhone: "+54 9 11 0000-0000",
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Initialize(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestInitializeStores(t *testing.T) {
	for _, driver := range []string{DriverMemory, DriverFile, DriverBolt, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.StoreDriver = driver
			if driver == DriverFile {
				cfg.StorePath = filepath.Join(t.TempDir(), "kv")
			}
			a := newTestApp(t, cfg)

			ctx := context.Background()
			require.NoError(t, a.Store.Set(ctx, "k", []byte(`"v"`)))
			v, found, err := a.Store.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `"v"`, string(v))
		})
	}
}

func TestInitializeErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "mongo"
	_, err := Initialize(context.Background(), cfg)
	assert.ErrorContains(t, err, "unsupported store driver")

	cfg = testConfig(t)
	cfg.HiddenPolicy = "sometimes"
	_, err = Initialize(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = Initialize(context.Background(), cfg)
	assert.Error(t, err)
}

func TestWarmupSeedsInventory(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	ctx := context.Background()

	products := a.Warmup(ctx)
	assert.Len(t, products, 2)
	assert.Equal(t, models.StockLevel{Known: true, Value: 5}, a.Inventory.GetStock(ctx, "c1", "Negro", "M"))
	assert.Equal(t, models.StockLevel{Known: true, Value: 5}, a.Inventory.GetStock(ctx, "j1", "Gris", "L"))
}

func TestCatalogRoutes(t *testing.T) {
	h := newTestApp(t, testConfig(t)).Handler()

	w := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.ProductListResponse](t, w)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "Calza Lycra", list.Products[0].Name)
	assert.Equal(t, service.StockAvailable, list.Products[0].Stock.State)

	w = do(t, h, http.MethodGet, "/api/products?section=hombres&sort=price-desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[models.ProductListResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Jogger Rustico", list.Products[0].Name)

	w = do(t, h, http.MethodGet, "/api/products?color=negro,gris&size=m", "")
	list = decode[models.ProductListResponse](t, w)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "c1", list.Products[0].ID)

	w = do(t, h, http.MethodGet, "/api/products?sort=cheapest", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/products/jogger-rustico", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "j1", decode[models.ProductListing](t, w).ID)

	w = do(t, h, http.MethodGet, "/api/products/buzo-polar", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/cache/clear", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/catalogo/mujer", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="`+service.PreloadScriptID+`"`)
	assert.Contains(t, w.Body.String(), "Calza Lycra")
	assert.NotContains(t, w.Body.String(), "Jogger")
}

func TestSearchRoutes(t *testing.T) {
	h := newTestApp(t, testConfig(t)).Handler()

	w := do(t, h, http.MethodGet, "/api/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/search?q=calsa", "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.SearchResponse](t, w)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Calza Lycra", res.Products[0].Name)

	w = do(t, h, http.MethodGet, "/api/search?q=calza&category=hombre", "")
	assert.Zero(t, decode[models.SearchResponse](t, w).Total)

	w = do(t, h, http.MethodGet, "/api/suggest?q=j", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.SuggestResponse](t, w).Suggestions)

	w = do(t, h, http.MethodGet, "/api/suggest?q=jog", "")
	sug := decode[models.SuggestResponse](t, w)
	require.Len(t, sug.Suggestions, 1)
	assert.Equal(t, "Jogger Rustico", sug.Suggestions[0].Name)
	assert.Equal(t, "index.html?q=jog", sug.ResultsURL)
}

func TestCartAndOrderRoutes(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	a.Warmup(context.Background())
	h := a.Handler()

	w := do(t, h, http.MethodPost, "/api/cart/items", `{"productId":"c1","name":"Calza Lycra","color":"Negro","talle":"M","price":8900,"quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[models.CartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "c1|negro|m", cart.Items[0].Key)

	w = do(t, h, http.MethodPost, "/api/cart/items", `{"name":"Sin id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, h, http.MethodPost, "/api/cart/items", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPatch, "/api/cart/items/c1%7Cnegro%7Cm", `{"qty":"2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[models.CartResponse](t, w)
	assert.Equal(t, models.CartTotals{TotalItems: 2, TotalPrice: 17800}, cart.Totals)

	w = do(t, h, http.MethodPatch, "/api/cart/items/c1%7Cnegro%7Cm", `{"qty":"muchos"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[models.CartResponse](t, w)
	assert.Equal(t, 1, cart.Items[0].Qty)

	w = do(t, h, http.MethodPatch, "/api/cart/items/c1%7Cnegro%7Cm", `{"qty":-4}`)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[models.CartResponse](t, w)
	assert.Equal(t, 1, cart.Items[0].Qty)

	w = do(t, h, http.MethodPatch, "/api/cart/items/c1%7Cnegro%7Cm", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPatch, "/api/cart/items/c1%7Cnegro%7Cm", `{"qty":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/cart/message", "")
	msg := decode[models.CartMessageResponse](t, w)
	assert.NotEmpty(t, msg.Message)
	assert.True(t, strings.HasPrefix(msg.Link, "https://wa.me/5491100000000?text="))

	w = do(t, h, http.MethodPost, "/api/orders", "")
	require.Equal(t, http.StatusCreated, w.Code)
	order := decode[models.Order](t, w)
	assert.Empty(t, order.Warnings)
	assert.NotEmpty(t, order.OrderID)

	w = do(t, h, http.MethodGet, "/api/variants/stock?productId=c1&color=negro&size=M", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"productId":"c1","color":"negro","size":"M","stock":3}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/api/cart", "")
	assert.Empty(t, decode[models.CartResponse](t, w).Items)

	w = do(t, h, http.MethodPost, "/api/orders", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRemoveAndClearRoutes(t *testing.T) {
	h := newTestApp(t, testConfig(t)).Handler()

	do(t, h, http.MethodPost, "/api/cart/items", `{"productId":"c1","price":10}`)
	do(t, h, http.MethodPost, "/api/cart/items", `{"productId":"j1","price":20}`)

	w := do(t, h, http.MethodDelete, "/api/cart/items/c1%7Cunico%7Cu", "")
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[models.CartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "j1", cart.Items[0].ProductID)

	w = do(t, h, http.MethodDelete, "/api/cart", "")
	assert.Empty(t, decode[models.CartResponse](t, w).Items)
}

func TestVariantRoutes(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	a.Warmup(context.Background())
	h := a.Handler()

	w := do(t, h, http.MethodGet, "/api/variants", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Variant](t, w), 2)

	w = do(t, h, http.MethodGet, "/api/variants/stock", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/variants/stock?productId=zz", "")
	assert.JSONEq(t, `{"productId":"zz","color":"Unico","size":"U","stock":"unknown"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/variants/decrement", `{"items":[{"pid":"j1","colorName":"Gris","talle":"L","quantity":9},{"productId":"c1","color":"Negro","size":"M","qty":1}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[models.UpdateResult](t, w)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"No se pudo descontar stock de j1 - Gris / L."}, res.Warnings)

	w = do(t, h, http.MethodPost, "/api/variants/sync", "")
	require.Equal(t, http.StatusOK, w.Code)
	sync := decode[models.SyncResponse](t, w)
	assert.Zero(t, sync.Received)
	assert.Len(t, sync.Inventory, 2)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	h := newTestApp(t, testConfig(t)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://romix.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
