package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting of the storefront service and CLI
type Config struct {
	Env  string
	Port string

	// Catalog sources
	DataFile       string
	ProductsAPIURL string
	VariantsAPIURL string
	UseAPI         bool

	// Persistence
	StoreDriver string
	StorePath   string
	DatabaseURL string

	// Session product cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Ranking and visibility
	RulesFile     string
	HiddenPolicy  string
	HiddenPattern string
	HiddenSeason  string

	WhatsAppPhone  string
	SearchDebounce time.Duration
}

// Load reads .env (outside production) and then the environment
func Load() *Config {
	env := os.Getenv("ENV")
	if env != "production" {
		// Use Overload so .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	port := getEnv("PORT", "8080")
	// Remove leading colon if present
	port = strings.TrimPrefix(port, ":")

	return &Config{
		Env:            env,
		Port:           port,
		DataFile:       getEnv("DATA_FILE", "assets/data/products.json"),
		ProductsAPIURL: os.Getenv("PRODUCTS_API_URL"),
		VariantsAPIURL: os.Getenv("VARIANTS_API_URL"),
		UseAPI:         getBool("USE_API", true),
		StoreDriver:    getEnv("STORE_DRIVER", "bolt"),
		StorePath:      getEnv("STORE_PATH", "data/storefront.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getInt("REDIS_DB", 0),
		SessionTTL:     getDuration("SESSION_TTL", 5*time.Minute),
		RulesFile:      os.Getenv("RULES_FILE"),
		HiddenPolicy:   getEnv("HIDDEN_POLICY", "keyword"),
		HiddenPattern:  os.Getenv("HIDDEN_PATTERN"),
		HiddenSeason:   getEnv("HIDDEN_SEASON", "invierno"),
		WhatsAppPhone:  os.Getenv("WHATSAPP_PHONE"),
		SearchDebounce: getDuration("SEARCH_DEBOUNCE", 200*time.Millisecond),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ Config: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ Config: invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ Config: invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
