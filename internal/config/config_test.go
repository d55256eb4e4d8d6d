package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":                 "postgres://localhost/toko",
		"REDIS_URL":                    "redis://localhost:6379/0",
		"PRICE_RULES":                  "",
		"CART_TTL":                     "",
		"PURCHASE_MAX_RETRY":           "",
		"PORT":                         "",
		"MAX_BODY_BYTES":               "",
		"CART_LOCK_TTL":                "",
		"CATALOG_BREAKER_MIN_REQUESTS": "",
		"CATALOG_BREAKER_OPEN_FOR":     "",
	})
	require.NoError(t, err)
	require.Equal(t, "flat:1", cfg.PriceRules)
	require.Equal(t, 168*time.Hour, cfg.CartTTL)
	require.Equal(t, 5, cfg.PurchaseMaxRetry)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	require.Equal(t, 5*time.Second, cfg.CartLockTTL)
	require.Equal(t, 10, cfg.CatalogBreakerMinRequests)
	require.Equal(t, 30*time.Second, cfg.CatalogBreakerOpenFor)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost/toko",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PRICE_RULES":          "flat:2,bogo:3:1",
		"CATALOG_CACHE_TTL":    "30s",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example",
		"MIGRATE_ON_START":     "yes",
		"PORT":                 ":9090",
	})
	require.NoError(t, err)
	require.Equal(t, "flat:2,bogo:3:1", cfg.PriceRules)
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.MigrateOnStart)
	require.Equal(t, ":9090", cfg.HTTPAddr())
}

func TestLoadRequiresConnections(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.EqualError(t, err, "DATABASE_URL is required")

	_, err = config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/toko",
		"REDIS_URL":    "",
	})
	require.EqualError(t, err, "REDIS_URL is required")
}
