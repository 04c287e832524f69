package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"romix-storefront/models"
	"romix-storefront/repository"
	"romix-storefront/utils"
)

// Stock assumed for a size when only its status is known
const (
	seedStockDefault = 5
	seedStockLow     = 2
)

// InventoryService keeps the variant stock table. Reads are served from a
// process-local copy of the persisted table until it is invalidated.
// Implements InventoryServiceInterface
type InventoryService struct {
	store  repository.KeyValueStoreInterface
	remote RemoteClientInterface

	mu    sync.Mutex
	cache *variantTable
}

// NewInventoryService creates a new InventoryService. remote may be nil.
func NewInventoryService(store repository.KeyValueStoreInterface, remote RemoteClientInterface) *InventoryService {
	return &InventoryService{
		store:  store,
		remote: remote,
	}
}

// Ensure InventoryService implements InventoryServiceInterface
var _ InventoryServiceInterface = (*InventoryService)(nil)

// variantTable is an insertion-ordered map of variants by composite key
type variantTable struct {
	keys  []string
	byKey map[string]models.Variant
}

func newVariantTable() *variantTable {
	return &variantTable{byKey: make(map[string]models.Variant)}
}

func (t *variantTable) set(v models.Variant) {
	key := BuildKey(v.ProductID, v.Color, v.Size)
	if _, ok := t.byKey[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.byKey[key] = v
}

func (t *variantTable) list() []models.Variant {
	out := make([]models.Variant, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.byKey[key])
	}
	return out
}

func (t *variantTable) clone() *variantTable {
	c := &variantTable{
		keys:  append([]string(nil), t.keys...),
		byKey: make(map[string]models.Variant, len(t.byKey)),
	}
	for k, v := range t.byKey {
		c.byKey[k] = v
	}
	return c
}

// sanitizeVariant trims the id and fills color/size defaults. ok is false for entries without an id.
func sanitizeVariant(v models.Variant) (models.Variant, bool) {
	v.ProductID = strings.TrimSpace(v.ProductID)
	v.Color = strings.TrimSpace(v.Color)
	v.Size = strings.TrimSpace(v.Size)
	if v.Color == "" {
		v.Color = models.DefaultColor
	}
	if v.Size == "" {
		v.Size = models.DefaultSize
	}
	if v.Stock < 0 {
		v.Stock = 0
	}
	return v, v.ProductID != ""
}

// GetAll returns every variant in insertion order
func (s *InventoryService) GetAll(ctx context.Context) []models.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table(ctx).list()
}

// SaveAll replaces the table with list. Later duplicates of a key win.
func (s *InventoryService) SaveAll(ctx context.Context, list []models.Variant) []models.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newVariantTable()
	for _, v := range list {
		if clean, ok := sanitizeVariant(v); ok {
			t.set(clean)
		}
	}
	s.persist(ctx, t)
	return t.list()
}

// GetStock returns the stock of one variant, or an unknown level when the ledger has no entry
func (s *InventoryService) GetStock(ctx context.Context, productID, color, size string) models.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()

	probe, _ := sanitizeVariant(models.Variant{ProductID: productID, Color: color, Size: size})
	v, ok := s.table(ctx).byKey[BuildKey(probe.ProductID, probe.Color, probe.Size)]
	if !ok {
		return models.StockLevel{}
	}
	return models.StockLevel{Known: true, Value: v.Stock}
}

// UpdateMany decrements stock for every line that can be served. The whole plan is
// computed against the current table first and written once; lines for unknown
// variants or without enough stock are skipped with a warning.
func (s *InventoryService) UpdateMany(ctx context.Context, lines []models.StockLine) models.UpdateResult {
	plan := make([]models.StockLine, 0, len(lines))
	for _, line := range lines {
		line.ProductID = strings.TrimSpace(line.ProductID)
		line.Color = strings.TrimSpace(line.Color)
		line.Size = strings.TrimSpace(line.Size)
		if line.Color == "" {
			line.Color = models.DefaultColor
		}
		if line.Size == "" {
			line.Size = models.DefaultSize
		}
		if line.ProductID == "" || line.Qty <= 0 {
			continue
		}
		plan = append(plan, line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.table(ctx)
	if len(plan) == 0 {
		return models.UpdateResult{Success: true, Warnings: []string{}, Inventory: current.list()}
	}

	next := current.clone()
	warnings := []string{}
	for _, line := range plan {
		key := BuildKey(line.ProductID, line.Color, line.Size)
		v, ok := next.byKey[key]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Stock desconocido para %s - %s / %s.", line.ProductID, line.Color, line.Size))
			continue
		}
		if v.Stock-line.Qty < 0 {
			warnings = append(warnings, fmt.Sprintf("No se pudo descontar stock de %s - %s / %s.", line.ProductID, line.Color, line.Size))
			continue
		}
		v.Stock -= line.Qty
		next.byKey[key] = v
	}

	s.persist(ctx, next)
	if len(warnings) > 0 {
		log.Printf("⚠️ Inventory: %d of %d lines not applied", len(warnings), len(plan))
	} else {
		log.Printf("✅ Inventory: applied %d decrements", len(plan))
	}
	return models.UpdateResult{Success: true, Warnings: warnings, Inventory: next.list()}
}

// MergeFrom overlays remote variants onto the table; remote entries win
func (s *InventoryService) MergeFrom(ctx context.Context, remote []models.Variant) []models.Variant {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(ctx).clone()
	for _, v := range remote {
		if clean, ok := sanitizeVariant(v); ok {
			t.set(clean)
		}
	}
	s.persist(ctx, t)
	return t.list()
}

// SyncFromRemote merges the remote stock snapshot. Failures are logged and ignored.
// It returns the number of remote variants received.
func (s *InventoryService) SyncFromRemote(ctx context.Context) int {
	if s.remote == nil {
		return 0
	}

	log.Printf("🔄 Inventory: syncing from remote")
	list, err := s.remote.FetchVariants(ctx)
	if err != nil {
		log.Printf("⚠️ Inventory: remote sync skipped: %v", err)
		return 0
	}
	s.MergeFrom(ctx, list)
	log.Printf("✅ Inventory: merged %d remote variants", len(list))
	return len(list)
}

// SeedFromProducts fills an empty table with one variant per color and size of
// every product. Stock comes from stockByColor when present, else from the size status.
// It returns the number of variants created.
func (s *InventoryService) SeedFromProducts(ctx context.Context, products []models.Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.table(ctx).keys) > 0 {
		return 0
	}

	t := newVariantTable()
	for _, p := range products {
		for _, v := range VariantsForProduct(p) {
			t.set(v)
		}
	}
	if len(t.keys) == 0 {
		return 0
	}

	s.persist(ctx, t)
	log.Printf("📦 Inventory: seeded %d variants from %d products", len(t.keys), len(products))
	return len(t.keys)
}

// VariantsForProduct expands a product into its color × size variants
func VariantsForProduct(p models.Product) []models.Variant {
	pid := utils.ProductID(p)
	if pid == "" {
		return nil
	}

	colors := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		if name := strings.TrimSpace(c.Name); name != "" {
			colors = append(colors, name)
		}
	}
	if len(colors) == 0 {
		colors = []string{models.DefaultColor}
	}

	sizes := p.Sizes
	if len(sizes) == 0 {
		sizes = []models.Size{{Size: models.DefaultSize}}
	}

	out := make([]models.Variant, 0, len(colors)*len(sizes))
	for _, color := range colors {
		for _, size := range sizes {
			name := strings.TrimSpace(size.Size)
			if name == "" {
				name = models.DefaultSize
			}
			stock, ok := stockFromMatrix(p.StockByColor, color, name)
			if !ok {
				stock = StockFromStatus(size.Status)
			}
			out = append(out, models.Variant{ProductID: pid, Color: color, Size: name, Stock: stock})
		}
	}
	return out
}

// StockFromStatus estimates stock from a size status: out/unavailable 0, low 2, otherwise 5
func StockFromStatus(status string) int {
	st := utils.Normalize(status)
	switch {
	case strings.Contains(st, "out"), strings.Contains(st, "unavail"):
		return 0
	case strings.Contains(st, "low"):
		return seedStockLow
	}
	return seedStockDefault
}

func stockFromMatrix(matrix map[string]map[string]int, color, size string) (int, bool) {
	for c, bySize := range matrix {
		if utils.Normalize(c) != utils.Normalize(color) {
			continue
		}
		for sz, qty := range bySize {
			if utils.Normalize(sz) == utils.Normalize(size) {
				return max(0, qty), true
			}
		}
	}
	return 0, false
}

// Invalidate drops the process-local copy; the next read goes back to storage
func (s *InventoryService) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// WatchChanges invalidates the local copy whenever another writer changes the inventory key
func (s *InventoryService) WatchChanges(notifier repository.ChangeNotifierInterface) func() {
	return notifier.Subscribe(func(key string) {
		if key != InventoryStorageKey {
			return
		}
		log.Printf("🔄 Inventory: storage changed, dropping cached table")
		s.Invalidate()
	})
}

// table returns the cached table, loading it from storage when needed. Caller holds mu.
func (s *InventoryService) table(ctx context.Context) *variantTable {
	if s.cache != nil {
		return s.cache
	}

	t := newVariantTable()
	for _, v := range s.read(ctx) {
		if clean, ok := sanitizeVariant(v); ok {
			t.set(clean)
		}
	}
	s.cache = t
	return t
}

func (s *InventoryService) read(ctx context.Context) []models.Variant {
	data, found, err := s.store.Get(ctx, InventoryStorageKey)
	if err != nil {
		log.Printf("⚠️ Inventory: failed to read stock table: %v", err)
		return nil
	}
	if !found {
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Printf("⚠️ Inventory: ignoring malformed stock table: %v", err)
		return nil
	}

	list := make([]models.Variant, 0, len(raw))
	for _, entry := range raw {
		if !isJSONObject(entry) {
			continue
		}
		var v models.Variant
		if err := json.Unmarshal(entry, &v); err != nil {
			continue
		}
		list = append(list, v)
	}
	return list
}

// persist writes t and, once storage has it, makes it the cached table.
// A failed write drops the cache so the next read goes back to storage. Caller holds mu.
func (s *InventoryService) persist(ctx context.Context, t *variantTable) {
	data, err := json.Marshal(t.list())
	if err != nil {
		log.Printf("❌ Inventory: failed to encode stock table: %v", err)
		s.cache = nil
		return
	}
	if err := s.store.Set(ctx, InventoryStorageKey, data); err != nil {
		log.Printf("❌ Inventory: failed to persist stock table: %v", err)
		s.cache = nil
		return
	}
	s.cache = t
}
