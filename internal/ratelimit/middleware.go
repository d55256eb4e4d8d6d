package ratelimit

import (
	"fmt"
	"net/http"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/noah-isme/toko-pricing/internal/common"
)

// RedisStore keeps counters in Redis so every API replica shares them.
func RedisStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if prefix == "" {
		prefix = "ratelimit"
	}
	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("ratelimit store: %w", err)
	}
	return store, nil
}

// Middleware limits requests per client IP using a formatted rate such as
// "300-M". Rejected requests get the canonical error body with 429.
func Middleware(store limiter.Store, formatted string) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit rate %q: %w", formatted, err)
	}
	mw := stdlib.NewMiddleware(
		limiter.New(store, rate, limiter.WithTrustForwardHeader(true)),
		stdlib.WithLimitReachedHandler(limitReached),
	)
	return mw.Handler, nil
}

func limitReached(w http.ResponseWriter, _ *http.Request) {
	common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
}
