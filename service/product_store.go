package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/singleflight"

	"romix-storefront/models"
	"romix-storefront/repository"
	"romix-storefront/utils"
)

// DefaultCacheTTL is how long the session catalog cache stays valid
const DefaultCacheTTL = 5 * time.Minute

// LoadOptions tune a single ProductStore.Load call
type LoadOptions struct {
	// Preloaded is a catalog already at hand (for example embedded by a page)
	Preloaded []models.Product
	// PreloadedHTML and PreloadedScriptID point at an inline JSON payload inside an HTML document
	PreloadedHTML     []byte
	PreloadedScriptID string
	// Force skips memory, preloaded and session caches
	Force bool
	// UseAPI defaults to true
	UseAPI *bool
	// DataURL overrides the static catalog location
	DataURL string
	// Section restricts the fetch to one section and bypasses the shared caches
	Section string
}

// ProductStoreInterface defines the contract for catalog loading
type ProductStoreInterface interface {
	Load(ctx context.Context, opts LoadOptions) []models.Product
	Clear(ctx context.Context)
}

// ProductStore resolves the catalog from the first source that has it:
// memory, preloaded data, session cache, remote API, static file.
// Implements ProductStoreInterface
type ProductStore struct {
	remote    RemoteClientInterface
	session   repository.KeyValueStoreInterface
	sanitizer *Sanitizer
	dataURL   string
	ttl       time.Duration
	now       func() time.Time

	group  singleflight.Group
	mu     sync.RWMutex
	memory []models.Product
}

// NewProductStore creates a new ProductStore. A zero ttl means DefaultCacheTTL.
func NewProductStore(remote RemoteClientInterface, session repository.KeyValueStoreInterface, sanitizer *Sanitizer, dataURL string, ttl time.Duration) *ProductStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProductStore{
		remote:    remote,
		session:   session,
		sanitizer: sanitizer,
		dataURL:   dataURL,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Ensure ProductStore implements ProductStoreInterface
var _ ProductStoreInterface = (*ProductStore)(nil)

type sessionCache struct {
	Timestamp *int64          `json:"timestamp"`
	List      json.RawMessage `json:"list"`
}

// Load returns the sanitized catalog. It never fails: when every source is
// unavailable the result is empty.
func (s *ProductStore) Load(ctx context.Context, opts LoadOptions) []models.Product {
	if opts.Section != "" {
		return s.loadSection(ctx, opts)
	}

	if !opts.Force {
		if mem := s.cached(); len(mem) > 0 {
			return mem
		}

		if preloaded := s.fromPreloaded(opts); len(preloaded) > 0 {
			s.setMemory(preloaded)
			s.writeSessionCache(ctx, preloaded)
			return clone(preloaded)
		}

		if cached := s.readSessionCache(ctx); len(cached) > 0 {
			log.Printf("🔍 Products: using session cache (%d products)", len(cached))
			s.setMemory(cached)
			return clone(cached)
		}
	}

	key := s.flightKey(opts)
	if opts.Force {
		s.group.Forget(key)
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		list, err := s.fetch(context.WithoutCancel(ctx), opts)
		if err != nil {
			return nil, err
		}
		s.setMemory(list)
		return list, nil
	})
	if err != nil {
		log.Printf("❌ Products: catalog unavailable: %v", err)
		return []models.Product{}
	}
	if shared {
		log.Printf("🔄 Products: shared in-flight fetch")
	}
	return clone(v.([]models.Product))
}

// Clear drops the in-memory catalog and the session cache
func (s *ProductStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.memory = nil
	s.mu.Unlock()

	s.group.Forget(s.flightKey(LoadOptions{}))
	if err := s.session.Remove(ctx, ProductsCacheKey); err != nil {
		log.Printf("⚠️ Products: failed to clear session cache: %v", err)
	}
}

func (s *ProductStore) loadSection(ctx context.Context, opts LoadOptions) []models.Product {
	v, err, _ := s.group.Do(s.flightKey(opts), func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), opts)
	})
	if err != nil {
		log.Printf("❌ Products: section %s unavailable: %v", opts.Section, err)
		return []models.Product{}
	}
	return clone(v.([]models.Product))
}

func (s *ProductStore) flightKey(opts LoadOptions) string {
	useAPI := opts.UseAPI == nil || *opts.UseAPI
	return fmt.Sprintf("%s|%s|%t", utils.NormalizeSection(opts.Section), opts.DataURL, useAPI)
}

// fetch runs the network part of the chain: remote API, then static file
func (s *ProductStore) fetch(ctx context.Context, opts LoadOptions) ([]models.Product, error) {
	section := utils.NormalizeSection(opts.Section)
	cacheable := section == ""

	if opts.UseAPI == nil || *opts.UseAPI {
		list, err := s.remote.FetchProducts(ctx, section)
		if err == nil {
			clean := s.sanitizer.SanitizeList(list)
			log.Printf("✓ Products: fetched %d products from API", len(clean))
			if cacheable && len(clean) > 0 {
				s.writeSessionCache(ctx, clean)
			}
			return clean, nil
		}
		log.Printf("⚠️ Products: API fetch failed, falling back to data file: %v", err)
	}

	location := opts.DataURL
	if location == "" {
		location = s.dataURL
	}
	list, err := s.remote.FetchDataFile(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if section != "" {
		filtered := list[:0:0]
		for _, p := range list {
			if utils.NormalizeSection(p.Section) == section {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}

	clean := s.sanitizer.SanitizeList(list)
	log.Printf("✓ Products: loaded %d products from %s", len(clean), location)
	if cacheable {
		s.writeSessionCache(ctx, clean)
	}
	return clean, nil
}

func (s *ProductStore) fromPreloaded(opts LoadOptions) []models.Product {
	if len(opts.Preloaded) > 0 {
		return s.sanitizer.SanitizeList(opts.Preloaded)
	}
	if opts.PreloadedScriptID == "" || len(opts.PreloadedHTML) == 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(opts.PreloadedHTML))
	if err != nil {
		log.Printf("⚠️ Products: failed to parse preloaded HTML: %v", err)
		return nil
	}

	el := doc.Find("[id]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, _ := sel.Attr("id")
		return id == opts.PreloadedScriptID
	}).First()
	if el.Length() == 0 {
		return nil
	}

	raw := strings.TrimSpace(el.Text())
	if raw == "" {
		return nil
	}

	var list []models.Product
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		log.Printf("⚠️ Products: invalid preloaded payload in #%s: %v", opts.PreloadedScriptID, err)
		return nil
	}
	return s.sanitizer.SanitizeList(list)
}

func (s *ProductStore) readSessionCache(ctx context.Context) []models.Product {
	data, found, err := s.session.Get(ctx, ProductsCacheKey)
	if err != nil {
		log.Printf("⚠️ Products: failed to read session cache: %v", err)
		return nil
	}
	if !found {
		return nil
	}

	var cache sessionCache
	if err := json.Unmarshal(data, &cache); err != nil || cache.Timestamp == nil {
		return nil
	}
	age := s.now().Sub(time.UnixMilli(*cache.Timestamp))
	if age > s.ttl {
		return nil
	}

	var list []models.Product
	if err := json.Unmarshal(cache.List, &list); err != nil {
		return nil
	}
	return s.sanitizer.SanitizeList(list)
}

func (s *ProductStore) writeSessionCache(ctx context.Context, list []models.Product) {
	ts := s.now().UnixMilli()
	raw, err := json.Marshal(list)
	if err != nil {
		log.Printf("⚠️ Products: failed to encode session cache: %v", err)
		return
	}
	data, err := json.Marshal(sessionCache{Timestamp: &ts, List: raw})
	if err != nil {
		log.Printf("⚠️ Products: failed to encode session cache: %v", err)
		return
	}

	if ttlStore, ok := s.session.(repository.TTLStoreInterface); ok {
		err = ttlStore.SetWithTTL(ctx, ProductsCacheKey, data, s.ttl)
	} else {
		err = s.session.Set(ctx, ProductsCacheKey, data)
	}
	if err != nil {
		log.Printf("⚠️ Products: failed to write session cache: %v", err)
	}
}

func (s *ProductStore) cached() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.memory)
}

func (s *ProductStore) setMemory(list []models.Product) {
	s.mu.Lock()
	s.memory = clone(list)
	s.mu.Unlock()
}

func clone(list []models.Product) []models.Product {
	if list == nil {
		return nil
	}
	out := make([]models.Product, len(list))
	copy(out, list)
	return out
}
