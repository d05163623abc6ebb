package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Subsystem: "provider",
		Name:      "requests_total",
		Help:      "Calls made to external AI providers, by outcome.",
	}, []string{"provider", "outcome"})

	providerLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitcoach",
		Subsystem: "provider",
		Name:      "request_duration_seconds",
		Help:      "Round-trip latency of external AI provider calls.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
	}, []string{"provider"})

	fallbackCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Name:      "fallback_total",
		Help:      "Results served from a fallback tier instead of the primary provider.",
	}, []string{"service", "tier"})
)

func init() {
	prometheus.MustRegister(providerRequests, providerLatency, fallbackCounter)
}

// RecordProviderCall counts one provider round-trip and its latency.
func RecordProviderCall(provider string, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	providerRequests.WithLabelValues(provider, outcome).Inc()
	providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordFallback counts a result that came from a lower tier.
func RecordFallback(service, tier string) {
	fallbackCounter.WithLabelValues(service, tier).Inc()
}
