package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the HTTP layer reports to.
type Recorder interface {
	ObserveRequest(route string, status int, d time.Duration)
}

// HTTPCollector records per-route request metrics.
type HTTPCollector struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPCollector creates the request metrics and registers them on reg.
func NewHTTPCollector(reg prometheus.Registerer) *HTTPCollector {
	c := &HTTPCollector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authservice_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authservice_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(c.requests, c.latency)

	return c
}

// ObserveRequest counts one request and records its latency.
func (c *HTTPCollector) ObserveRequest(route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
