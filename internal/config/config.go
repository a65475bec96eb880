package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	ProductsAPIURL string
	OrdersAPIURL   string
	LoginPath      string
	DBDSN          string
	LogFile        string
	StatusMode     string // server | fixed | random
	ViewTTL        time.Duration
	BackendTimeout time.Duration
	OTLPEndpoint   string
}

func Load() Config {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := Config{
		Port:           getEnv("PORT", "8081"),
		ProductsAPIURL: strings.TrimRight(getEnv("PRODUCTS_API_URL", "https://backend3dx.onrender.com"), "/"),
		OrdersAPIURL:   strings.TrimRight(getEnv("ORDERS_API_URL", "https://ecommercebackend-8gx8.onrender.com"), "/"),
		LoginPath:      getEnv("LOGIN_PATH", "/seller/login"),
		DBDSN:          getEnv("DB_DSN", "sellerconsole.db"),
		LogFile:        getEnv("LOG_FILE", "./sellerconsole.log"),
		StatusMode:     strings.ToLower(getEnv("ORDER_STATUS_MODE", "server")),
		ViewTTL:        getDuration("VIEW_TTL", 30*time.Minute),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 10*time.Second),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
	switch cfg.StatusMode {
	case "server", "fixed", "random":
	default:
		log.Printf("[config] unknown ORDER_STATUS_MODE %q, using server", cfg.StatusMode)
		cfg.StatusMode = "server"
	}

	log.Printf("[config] PORT=%s PRODUCTS_API_URL=%s ORDERS_API_URL=%s DB_DSN=%s LOG_FILE=%s ORDER_STATUS_MODE=%s VIEW_TTL=%s",
		cfg.Port, cfg.ProductsAPIURL, cfg.OrdersAPIURL, cfg.DBDSN, cfg.LogFile, cfg.StatusMode, cfg.ViewTTL)
	return cfg
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, raw, def)
		return def
	}
	return d
}
