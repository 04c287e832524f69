package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"romix-storefront/app/controller"
	"romix-storefront/app/router"
	"romix-storefront/config"
	"romix-storefront/db"
	"romix-storefront/models"
	"romix-storefront/ranking"
	"romix-storefront/repository"
	"romix-storefront/search"
	"romix-storefront/service"
)

// Store drivers accepted by STORE_DRIVER
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// App holds the wired storefront services shared by the HTTP server and the CLI
type App struct {
	Config *config.Config

	Store   repository.KeyValueStoreInterface
	Session repository.KeyValueStoreInterface

	Ranker    *ranking.Engine
	Search    *search.Engine
	Products  *service.ProductStore
	Cart      *service.CartService
	Inventory *service.InventoryService
	Catalog   *service.CatalogService
	Checkout  *service.CheckoutService

	closers []func() error
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	a.Store = store

	// Session cache: Redis when configured, otherwise the main store
	a.Session = store
	if cfg.RedisAddr != "" {
		rs, err := repository.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("⚠️ App: redis unavailable, session cache falls back to %s store: %v", cfg.StoreDriver, err)
		} else {
			a.Session = rs
			a.closers = append(a.closers, rs.Close)
			log.Printf("✓ App: session cache on redis %s", cfg.RedisAddr)
		}
	}

	ranker, err := ranking.NewEngine(cfg.RulesFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load ranking rules: %w", err)
	}
	a.Ranker = ranker

	sanitizer, err := service.NewSanitizer(service.HiddenPolicy(cfg.HiddenPolicy), cfg.HiddenPattern, cfg.HiddenSeason)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to configure hidden products: %w", err)
	}

	remote := service.NewRemoteClient(cfg.ProductsAPIURL, cfg.VariantsAPIURL)

	a.Search = search.NewEngine()
	a.Products = service.NewProductStore(remote, a.Session, sanitizer, cfg.DataFile, cfg.SessionTTL)
	a.Cart = service.NewCartService(store)
	a.Inventory = service.NewInventoryService(store, remote)
	a.Catalog = service.NewCatalogService(a.Products, ranker)
	a.Checkout = service.NewCheckoutService(a.Cart, a.Inventory, cfg.WhatsAppPhone)

	if notifier, ok := store.(repository.ChangeNotifierInterface); ok {
		stop := a.Inventory.WatchChanges(notifier)
		a.closers = append(a.closers, func() error {
			stop()
			return nil
		})
	}

	log.Printf("✅ App: initialized (store=%s, hidden=%s)", cfg.StoreDriver, sanitizer.Policy())
	return a, nil
}

// openStore opens the durable store selected by STORE_DRIVER
func (a *App) openStore(ctx context.Context) (repository.KeyValueStoreInterface, error) {
	cfg := a.Config

	switch cfg.StoreDriver {
	case DriverMemory:
		return repository.NewMemoryStore(), nil

	case DriverFile:
		fs, err := repository.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, fs.Close)
		return fs, nil

	case DriverBolt, "":
		if err := ensureParentDir(cfg.StorePath); err != nil {
			return nil, err
		}
		bs, err := repository.NewBoltStore(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, bs.Close)
		return bs, nil

	case DriverSQLite:
		if err := ensureParentDir(cfg.StorePath); err != nil {
			return nil, err
		}
		conn, err := db.InitDB(ctx, DriverSQLite, cfg.StorePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.CloseDB)
		return repository.NewSQLStore(ctx, conn, repository.DialectSQLite)

	case DriverPostgres:
		conn, err := db.InitDB(ctx, DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.CloseDB)
		return repository.NewSQLStore(ctx, conn, repository.DialectPostgres)
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Warmup loads the catalog, seeds an empty inventory from it and merges the
// remote stock snapshot. Failures only degrade the result.
func (a *App) Warmup(ctx context.Context) []models.Product {
	products := a.Products.Load(ctx, service.LoadOptions{})
	log.Printf("📦 App: catalog loaded with %d products", len(products))

	a.Inventory.SeedFromProducts(ctx, products)
	a.Inventory.SyncFromRemote(ctx)
	return products
}

// Handler builds the gin engine serving the storefront API
func (a *App) Handler() *gin.Engine {
	controllers := &router.Controllers{
		Health:    controller.NewHealthController(),
		Catalog:   controller.NewCatalogController(a.Catalog, a.Products),
		Search:    controller.NewSearchController(a.Search, a.Products),
		Cart:      controller.NewCartController(a.Cart, a.Config.WhatsAppPhone),
		Inventory: controller.NewInventoryController(a.Inventory),
		Order:     controller.NewOrderController(a.Checkout),
	}
	return router.SetupRoutes(controllers)
}

// Close releases every resource opened by Initialize, last opened first
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
