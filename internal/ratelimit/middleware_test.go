package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/noah-isme/toko-pricing/internal/ratelimit"
)

func TestMiddlewareEnforcesLimit(t *testing.T) {
	mw, err := ratelimit.Middleware(memory.NewStore(), "1-M")
	require.NoError(t, err)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/quote", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req.Clone(req.Context()))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req.Clone(req.Context()))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Contains(t, second.Body.String(), "RATE_LIMITED")

	other := req.Clone(req.Context())
	other.RemoteAddr = "10.0.0.2:1234"
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, other)
	require.Equal(t, http.StatusOK, third.Code)
}

func TestMiddlewareRejectsBadRate(t *testing.T) {
	_, err := ratelimit.Middleware(memory.NewStore(), "lots")
	require.Error(t, err)
}
