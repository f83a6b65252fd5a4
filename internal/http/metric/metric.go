package metric

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	InflightRequests prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

var defaultMetrics = sync.OnceValue(func() *Metrics {
	labels := []string{"method", "route", "status"}

	return &Metrics{
		InflightRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "warehouse_http_inflight_requests",
			Help: "Number of HTTP requests being served.",
		}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warehouse_http_requests_total",
			Help: "Number of HTTP requests served.",
		}, labels),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warehouse_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
})

// New returns the HTTP metrics registered on the default registerer. Metrics
// are registered once per process.
func New() *Metrics {
	return defaultMetrics()
}
