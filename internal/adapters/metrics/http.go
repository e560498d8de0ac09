package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRecorder counts API requests and their latency by route pattern
type HTTPRecorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPRecorder registers the HTTP collectors on reg
func NewHTTPRecorder(reg prometheus.Registerer) *HTTPRecorder {
	r := &HTTPRecorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storage_manager",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storage_manager",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(r.requests, r.duration)
	return r
}

// ObserveRequest records one finished request
func (r *HTTPRecorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
