package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the RED metric vectors for the HTTP surface. Vectors are
// created once at wiring time and handed to the middleware; nothing registers
// metrics per request.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics builds and registers the HTTP metric vectors on the given
// registerer (prometheus.DefaultRegisterer in production, a private registry
// in tests).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route template and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route template and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}
