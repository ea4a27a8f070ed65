package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	CatalogPath    string
	SQLitePath     string
	PriceBandsPath string
	PageSize       int
	Currency       string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	CartMaxSessions int
	CartSessionTTL  time.Duration

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Load reads an optional .env file (or the given path) and the environment.
// A missing env file is not an error.
func Load(envPath ...string) (*Config, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Address:        getEnv("API_ADDRESS", ":8080"),
		CatalogPath:    getEnv("CATALOG_PATH", "data/listings.json"),
		SQLitePath:     getEnv("SQLITE_PATH", ""),
		PriceBandsPath: getEnv("PRICE_BANDS_PATH", "configs/price_bands.json"),
		PageSize:       getEnvInt("PAGE_SIZE", 6),
		Currency:       strings.ToUpper(getEnv("CURRENCY", "GHS")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "color"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		CartMaxSessions: getEnvInt("CART_MAX_SESSIONS", 10000),
		CartSessionTTL:  getEnvDuration("CART_SESSION_TTL", 24*time.Hour),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "checkout"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "checkout.requested"),
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be > 0, got %d", cfg.PageSize)
	}
	if cfg.CartMaxSessions <= 0 {
		return nil, fmt.Errorf("CART_MAX_SESSIONS must be > 0, got %d", cfg.CartMaxSessions)
	}
	if len(cfg.Currency) != 3 {
		return nil, fmt.Errorf("CURRENCY must be an ISO-4217 code, got %q", cfg.Currency)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
