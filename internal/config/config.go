package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	AllowedOrigin           string
	UpstreamBaseURL         string
	UpstreamTimeoutSeconds  int
	DatabaseURL             string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	SupplierCacheTTLSeconds int
	AuthSecret              string
	AccessTokenTTLMinutes   int
	RejectPIN               string
}

func Load() Config {
	// A local .env is a development convenience; a missing file is fine.
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	upstreamTimeout, err := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"))
	if err != nil || upstreamTimeout < 1 {
		upstreamTimeout = 10
	}
	supplierTTL, err := strconv.Atoi(getEnv("SUPPLIER_CACHE_TTL_SECONDS", "60"))
	if err != nil || supplierTTL < 1 {
		supplierTTL = 60
	}
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}

	cfg := Config{
		Port:                    getEnv("PORT", "8090"),
		AllowedOrigin:           getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		UpstreamBaseURL:         getEnv("UPSTREAM_BASE_URL", "http://127.0.0.1:8080"),
		UpstreamTimeoutSeconds:  upstreamTimeout,
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 redisDB,
		SupplierCacheTTLSeconds: supplierTTL,
		AuthSecret:              strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes:   tokenTTL,
		RejectPIN:               strings.TrimSpace(os.Getenv("REJECT_PIN")),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
