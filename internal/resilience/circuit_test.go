package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/resilience"
)

func TestBreakerTransitions(t *testing.T) {
	metrics := resilience.NewMetrics("test", prometheus.NewRegistry())
	breaker := resilience.NewBreaker(resilience.Settings{
		Target:      "catalog",
		MinRequests: 2,
		OpenFor:     30 * time.Millisecond,
		Metrics:     metrics,
	})
	ctx := context.Background()

	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)

	require.Equal(t, resilience.Open, breaker.State())
	require.False(t, breaker.Allow(ctx), "breaker should open after threshold exceeded")
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.State.WithLabelValues("catalog")))

	time.Sleep(40 * time.Millisecond)
	require.True(t, breaker.Allow(ctx), "breaker should admit a probe after cool off")
	require.False(t, breaker.Allow(ctx), "only one probe while half-open")
	breaker.Report(ctx, true)
	require.Equal(t, resilience.Closed, breaker.State())
	require.True(t, breaker.Allow(ctx))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Transitions.WithLabelValues("catalog", "open", "half_open")))
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.Settings{MinRequests: 1, OpenFor: 10 * time.Millisecond})
	ctx := context.Background()

	breaker.Report(ctx, false)
	require.Equal(t, resilience.Open, breaker.State())
	time.Sleep(15 * time.Millisecond)
	require.True(t, breaker.Allow(ctx))
	breaker.Report(ctx, false)
	require.Equal(t, resilience.Open, breaker.State())
	require.False(t, breaker.Allow(ctx))
}

func TestBreakerDoIgnoresExpectedErrors(t *testing.T) {
	breaker := resilience.NewBreaker(resilience.Settings{MinRequests: 1})
	ctx := context.Background()
	miss := errors.New("miss")

	for i := 0; i < 5; i++ {
		err := breaker.Do(ctx, func(context.Context) error { return miss }, func(err error) bool {
			return !errors.Is(err, miss)
		})
		require.ErrorIs(t, err, miss)
	}
	require.Equal(t, resilience.Closed, breaker.State())

	fresh := resilience.NewBreaker(resilience.Settings{MinRequests: 1})
	err := fresh.Do(ctx, func(context.Context) error { return errors.New("down") }, nil)
	require.Error(t, err)
	called := false
	err = fresh.Do(ctx, func(context.Context) error { called = true; return nil }, nil)
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.False(t, called)
}
