package obs

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &HTTPMetrics{
		ReqTotal: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"})),
		ReqDur: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"})),
		InFlight: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		})),
	}
}

// PricingMetrics counts pricing outcomes.
type PricingMetrics struct {
	CartCalculations *prometheus.CounterVec
	OrderQuotes      *prometheus.CounterVec
	ShortfallUnits   prometheus.Counter
	Purchases        *prometheus.CounterVec
}

// NewPricingMetrics registers and returns the pricing collectors.
func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PricingMetrics{
		CartCalculations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_calculations_total",
			Help:      "Cart total calculations by outcome.",
		}, []string{"result"})),
		OrderQuotes: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_pricing_total",
			Help:      "Order pricing requests by outcome.",
		}, []string{"result"})),
		ShortfallUnits: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_shortfall_units_total",
			Help:      "Requested copies that could not be fulfilled from stock.",
		})),
		Purchases: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_enqueued_total",
			Help:      "Purchase tasks handed to the queue by outcome.",
		}, []string{"result"})),
	}
}

// ObserveCart records a cart calculation outcome. Safe on a nil receiver.
func (m *PricingMetrics) ObserveCart(err error) {
	if m == nil {
		return
	}
	m.CartCalculations.WithLabelValues(result(err)).Inc()
}

// ObserveOrder records an order pricing outcome and its shortfall.
func (m *PricingMetrics) ObserveOrder(shortfall int, err error) {
	if m == nil {
		return
	}
	m.OrderQuotes.WithLabelValues(result(err)).Inc()
	if err == nil && shortfall > 0 {
		m.ShortfallUnits.Add(float64(shortfall))
	}
}

// ObservePurchase records the outcome of handing a purchase to the queue.
func (m *PricingMetrics) ObservePurchase(err error) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
