package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"sort"
	"strings"

	"romix-storefront/models"
	"romix-storefront/ranking"
	"romix-storefront/repository"
	"romix-storefront/utils"
)

// Sort orders accepted by CatalogService.List
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// PreloadScriptID is the element id carrying the catalog inside rendered pages
const PreloadScriptID = "romix-products-data"

// Stock states
const (
	StockOut       = "out"
	StockLow       = "low"
	StockAvailable = "available"
)

// ListOptions filter and order a catalog listing
type ListOptions struct {
	Section string
	Season  string
	Types   []string
	Sizes   []string
	Colors  []string
	Query   string
	Sort    string
}

// CatalogService builds filtered, ordered listings on top of the product store
type CatalogService struct {
	products ProductStoreInterface
	ranker   *ranking.Engine
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(products ProductStoreInterface, ranker *ranking.Engine) *CatalogService {
	return &CatalogService{
		products: products,
		ranker:   ranker,
	}
}

// List returns the catalog restricted by section and season, filtered, and ordered
// by price when requested or by relevance otherwise
func (s *CatalogService) List(ctx context.Context, opts ListOptions) []models.Product {
	all := s.products.Load(ctx, LoadOptions{})
	log.Printf("🔍 Catalog: listing section=%q season=%q over %d products", opts.Section, opts.Season, len(all))

	section := utils.NormalizeSection(opts.Section)
	season := ranking.NormalizeSeason(opts.Season)

	scoped := make([]models.Product, 0, len(all))
	for _, p := range all {
		if section != "" && utils.NormalizeSection(p.Section) != section {
			continue
		}
		if season != "" && !s.inSeason(p, season) {
			continue
		}
		scoped = append(scoped, p)
	}

	filtered := FilterProducts(scoped, opts)
	switch opts.Sort {
	case SortPriceAsc, SortPriceDesc:
		return filtered
	}
	if season == ranking.SeasonVerano {
		return s.ranker.OrderSeason(filtered)
	}
	return s.ranker.Order(filtered, section)
}

// Listings is List with the derived stock summary of every product
func (s *CatalogService) Listings(ctx context.Context, opts ListOptions) []models.ProductListing {
	list := s.List(ctx, opts)
	out := make([]models.ProductListing, len(list))
	for i, p := range list {
		out[i] = models.ProductListing{Product: p, Stock: StockSummary(p)}
	}
	return out
}

// FindBySlug looks a product up by slug, falling back to its id
func (s *CatalogService) FindBySlug(ctx context.Context, slug string) (models.Product, error) {
	want := utils.Normalize(slug)
	if want == "" {
		return models.Product{}, fmt.Errorf("product %q: %w", slug, repository.ErrNotFound)
	}

	for _, p := range s.products.Load(ctx, LoadOptions{}) {
		if utils.Slugify(p.Name) == want || utils.Normalize(p.Slug) == want || utils.Normalize(utils.ProductID(p)) == want {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %q: %w", slug, repository.ErrNotFound)
}

func (s *CatalogService) inSeason(p models.Product, season string) bool {
	if season == ranking.SeasonMediaEstacion {
		return s.ranker.IsMediaEstacion(p) || ranking.SeasonKey(p) == season
	}
	if season == ranking.SeasonVerano && ranking.SeasonKey(p) == "" {
		return true
	}
	return ranking.SeasonKey(p) == season
}

// FilterProducts applies the type, size, color and text filters of opts and its price sort
func FilterProducts(list []models.Product, opts ListOptions) []models.Product {
	types := normalizedSet(opts.Types, normalizeString)
	sizes := normalizedSet(opts.Sizes, normalizeString)
	colors := normalizedSet(opts.Colors, utils.CanonicalColorKey)
	q := utils.Normalize(opts.Query)

	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		if q != "" && !strings.Contains(utils.Normalize(p.Name+" "+p.Type+" "+p.Badge), q) {
			continue
		}
		if len(types) > 0 && !types[utils.Normalize(p.Type)] {
			continue
		}
		if len(sizes) > 0 && !anySize(p.Sizes, sizes) {
			continue
		}
		if len(colors) > 0 && !anyColor(p.Colors, colors) {
			continue
		}
		out = append(out, p)
	}

	switch opts.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

func normalizedSet(values []string, normalize func(string) string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalizeString(s string) string {
	return utils.Normalize(s)
}

func anySize(sizes []models.Size, want map[string]bool) bool {
	for _, s := range sizes {
		if want[utils.Normalize(s.Size)] {
			return true
		}
	}
	return false
}

func anyColor(colors []models.Color, want map[string]bool) bool {
	for _, c := range colors {
		if want[utils.CanonicalColorKey(c.Name)] {
			return true
		}
	}
	return false
}

// StockSummary derives total stock and availability of a product: the stockByColor
// matrix when present, otherwise an estimate from the size statuses
func StockSummary(p models.Product) models.StockSummary {
	total := 0
	if p.StockByColor != nil {
		for _, bySize := range p.StockByColor {
			for _, qty := range bySize {
				total += qty
			}
		}
	} else {
		for _, size := range p.Sizes {
			total += StockFromStatus(size.Status)
		}
	}

	state := StockAvailable
	switch {
	case total <= 0:
		state = StockOut
	case total <= 3:
		state = StockLow
	}
	return models.StockSummary{Total: total, State: state}
}

var preloadPage = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body data-section="{{.Section}}">
<script id="{{.ScriptID}}" type="application/json">{{.Payload}}</script>
</body>
</html>
`))

// RenderPreloadedPage renders a page that embeds the section listing as an inline
// JSON payload, so the storefront can start without calling the products API
func (s *CatalogService) RenderPreloadedPage(ctx context.Context, section string) ([]byte, error) {
	list := s.List(ctx, ListOptions{Section: section})
	payload, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog payload: %w", err)
	}

	title := "Catálogo Romix"
	if sec := utils.NormalizeSection(section); sec != "" {
		title = "Colección " + sectionTitle(sec)
	}

	var buf bytes.Buffer
	err = preloadPage.Execute(&buf, struct {
		Title    string
		Section  string
		ScriptID string
		Payload  template.JS
	}{
		Title:    title,
		Section:  utils.NormalizeSection(section),
		ScriptID: PreloadScriptID,
		Payload:  template.JS(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render catalog page: %w", err)
	}

	log.Printf("✅ Catalog: rendered preloaded page with %d products", len(list))
	return buf.Bytes(), nil
}

func sectionTitle(section string) string {
	switch section {
	case utils.SectionMen:
		return "Hombre"
	case utils.SectionKids:
		return "Niños"
	}
	return "Mujer"
}
