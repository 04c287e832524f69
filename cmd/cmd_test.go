package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romix-storefront/app"
	"romix-storefront/models"
)

const catalogJSON = `[
  {"id":"c1","name":"Calza Lycra","type":"Calza","section":"mujer","price":8900,
   "colors":[{"name":"Negro","image":"calza-negra.jpg"},{"name":"Bordo"}],"sizes":[{"size":"M","status":"available"},{"size":"L","status":"low"}]},
  {"id":"j1","name":"Jogger Rustico","type":"Pantalon","section":"hombre","price":12000,
   "colors":["Gris"],"sizes":["L"]},
  {"id":"b1","name":"Buzo Frisado","section":"hombre","price":15000}
]`

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(data, []byte(catalogJSON), 0o644))

	t.Setenv("ENV", "production")
	t.Setenv("DATA_FILE", data)
	t.Setenv("PRODUCTS_API_URL", "")
	t.Setenv("VARIANTS_API_URL", "")
	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("STORE_PATH", filepath.Join(dir, "storefront.db"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("RULES_FILE", "")
	t.Setenv("HIDDEN_POLICY", "keyword")
	t.Setenv("WHATSAPP_PHONE", "5491100000000")
	t.Setenv("SEARCH_DEBOUNCE", "20ms")
}

func resetFlags() {
	jsonOutput, storeDriver = false, ""
	searchCategory, suggestInteractive = "", false
	catalogSection, catalogSeason, catalogSort, catalogQuery, catalogPage = "", "", "", "", ""
	catalogTypes, catalogSizes, catalogColors = nil, nil, nil
	catalogRefresh = false
	cartColor, cartSize, cartQty = "", "", 1
	stockColor, stockSize = models.DefaultColor, models.DefaultSize
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func runJSON[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, err := run(t, append(args, "--json")...)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestSearchCommand(t *testing.T) {
	setupEnv(t)

	res := runJSON[models.SearchResponse](t, "search", "calza", "lycra")
	assert.Equal(t, "calza lycra", res.Query)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "c1", res.Products[0].ID)

	res = runJSON[models.SearchResponse](t, "search", "frisado")
	assert.Zero(t, res.Total)

	out, err := run(t, "search", "jogger", "--category", "hombre")
	require.NoError(t, err)
	assert.Contains(t, out, "🔍 1 results")
	assert.Contains(t, out, "Jogger Rustico · Pantalon · hombre · $12.000")
}

func TestSuggestCommand(t *testing.T) {
	setupEnv(t)

	res := runJSON[models.SuggestResponse](t, "suggest", "jog")
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "HOMBRE", res.Suggestions[0].Label)

	_, err := run(t, "suggest")
	assert.Error(t, err)
}

func TestCatalogCommand(t *testing.T) {
	setupEnv(t)

	res := runJSON[models.ProductListResponse](t, "catalog")
	require.Equal(t, 2, res.Total)
	assert.Equal(t, "Calza Lycra", res.Products[0].Name)

	res = runJSON[models.ProductListResponse](t, "catalog", "--section", "hombres", "--sort", "price-asc")
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "j1", res.Products[0].ID)

	res = runJSON[models.ProductListResponse](t, "catalog", "--color", "bordo")
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "c1", res.Products[0].ID)

	_, err := run(t, "catalog", "--sort", "nombre")
	assert.Error(t, err)

	page := filepath.Join(t.TempDir(), "mujer.html")
	out, err := run(t, "catalog", "--section", "mujer", "--page", page)
	require.NoError(t, err)
	assert.Contains(t, out, page)
	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Calza Lycra")
}

func TestCartCommands(t *testing.T) {
	setupEnv(t)

	cart := runJSON[models.CartResponse](t, "cart", "add", "calza-lycra", "--size", "m", "-n", "2")
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "c1", item.ProductID)
	assert.Equal(t, "Negro", item.Color)
	assert.Equal(t, "calza-negra.jpg", item.Image)
	assert.Equal(t, 17800.0, item.Subtotal)

	cart = runJSON[models.CartResponse](t, "cart", "add", "c1", "--color", "bordo")
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "M", cart.Items[1].Size)

	_, err := run(t, "cart", "add", "c1", "--color", "verde")
	assert.ErrorContains(t, err, "not offered")
	_, err = run(t, "cart", "add", "c1", "--size", "XXL")
	assert.ErrorContains(t, err, "not offered")
	_, err = run(t, "cart", "add", "nada")
	assert.ErrorContains(t, err, "not found")

	cart = runJSON[models.CartResponse](t, "cart", "qty", item.Key, "5")
	assert.Equal(t, 5, cart.Items[0].Qty)
	cart = runJSON[models.CartResponse](t, "cart", "qty", item.Key, "cinco")
	assert.Equal(t, 1, cart.Items[0].Qty)
	cart = runJSON[models.CartResponse](t, "cart", "qty", item.Key, "5")
	assert.Equal(t, 5, cart.Items[0].Qty)

	out, err := run(t, "cart", "message")
	require.NoError(t, err)
	assert.Contains(t, out, "- Calza Lycra | Color: Negro | Talle: M | Cant: 5")
	assert.Contains(t, out, "https://wa.me/5491100000000?text=")

	cart = runJSON[models.CartResponse](t, "cart", "remove", item.Key)
	require.Len(t, cart.Items, 1)

	out, err = run(t, "cart", "clear")
	require.NoError(t, err)
	assert.Equal(t, "🛒 cart is empty\n", out)
}

func TestInventoryAndOrderCommands(t *testing.T) {
	setupEnv(t)

	variants := runJSON[[]models.Variant](t, "inventory", "seed")
	assert.Len(t, variants, 5)

	out, err := run(t, "inventory", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")

	out, err = run(t, "inventory", "stock", "c1", "--color", "negro", "--size", "L")
	require.NoError(t, err)
	assert.Equal(t, "c1 · negro / L · 2\n", out)

	out, err = run(t, "inventory", "stock", "zz")
	require.NoError(t, err)
	assert.Contains(t, out, "unknown")

	res := runJSON[models.UpdateResult](t, "inventory", "decrement", "j1", "9", "--color", "Gris", "--size", "L")
	assert.Equal(t, []string{"No se pudo descontar stock de j1 - Gris / L."}, res.Warnings)
	_, err = run(t, "inventory", "decrement", "j1", "0")
	assert.Error(t, err)

	sync := runJSON[models.SyncResponse](t, "inventory", "sync")
	assert.Zero(t, sync.Received)

	_, err = run(t, "order")
	assert.Error(t, err)

	runJSON[models.CartResponse](t, "cart", "add", "j1", "-n", "2")
	order := runJSON[models.Order](t, "order")
	assert.Empty(t, order.Warnings)
	assert.Equal(t, 2, order.Totals.TotalItems)

	out, err = run(t, "inventory", "stock", "j1", "--color", "Gris", "--size", "L")
	require.NoError(t, err)
	assert.Equal(t, "j1 · Gris / L · 3\n", out)
}

// syncBuffer is a bytes.Buffer safe for the autocomplete's publishing goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInteractiveAutocomplete(t *testing.T) {
	setupEnv(t)
	a, err := app.Initialize(context.Background(), loadConfig())
	require.NoError(t, err)
	defer a.Close()

	in, w := io.Pipe()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- runAutocomplete(context.Background(), a, in, out) }()

	write := func(line string) {
		_, err := io.WriteString(w, line+"\n")
		require.NoError(t, err)
	}

	write("jog")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Jogger Rustico")
	}, 2*time.Second, 10*time.Millisecond)

	write("/down")
	write("/enter")
	write("c")
	require.NoError(t, w.Close())
	require.NoError(t, <-done)

	text := out.String()
	assert.Contains(t, text, "> Jogger Rustico  [HOMBRE]")
	assert.Contains(t, text, "→ product.html?id=j1&slug=jogger-rustico")
	assert.Contains(t, text, "(no suggestions)")
}
