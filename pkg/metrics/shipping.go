package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShippingMetrics records rate-lookup outcomes per courier.
type ShippingMetrics struct {
	lookupDuration *prometheus.HistogramVec
	lookupFailure  *prometheus.CounterVec
	fallbackUsed   *prometheus.CounterVec
}

// NewShippingMetrics registers the shipping metrics on the provided registerer.
func NewShippingMetrics(reg prometheus.Registerer) *ShippingMetrics {
	if reg == nil {
		return &ShippingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shipping_rate_lookup_duration_seconds",
		Help:    "Duration of external shipping rate lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"courier"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_rate_lookup_failure",
		Help: "Failed external shipping rate lookups.",
	}, []string{"courier"})
	fallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_fallback_cost_used",
		Help: "Shipment quotes resolved via the courier's flat fallback cost.",
	}, []string{"courier"})
	reg.MustRegister(duration, failure, fallback)
	return &ShippingMetrics{
		lookupDuration: duration,
		lookupFailure:  failure,
		fallbackUsed:   fallback,
	}
}

// ObserveLookup records the duration for a rate lookup against the courier.
func (s *ShippingMetrics) ObserveLookup(courier string, duration time.Duration) {
	if s == nil || s.lookupDuration == nil {
		return
	}
	s.lookupDuration.WithLabelValues(normalizeLabel(courier)).Observe(duration.Seconds())
}

// IncLookupFailure increments the failure counter for the courier.
func (s *ShippingMetrics) IncLookupFailure(courier string) {
	if s == nil || s.lookupFailure == nil {
		return
	}
	s.lookupFailure.WithLabelValues(normalizeLabel(courier)).Inc()
}

// IncFallbackUsed increments the fallback counter for the courier.
func (s *ShippingMetrics) IncFallbackUsed(courier string) {
	if s == nil || s.fallbackUsed == nil {
		return
	}
	s.fallbackUsed.WithLabelValues(normalizeLabel(courier)).Inc()
}

func normalizeLabel(courier string) string {
	if courier == "" {
		return "unknown"
	}
	return courier
}
