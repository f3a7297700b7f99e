package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request latency plus the affiliate redirect counter.
type HTTPMetrics struct {
	duration  *prometheus.HistogramVec
	requests  *prometheus.CounterVec
	redirects *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests served, by route and status.",
	}, []string{"route", "method", "status"})
	redirects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "affiliate_redirects_total",
		Help: "Affiliate redirects issued, by product slug.",
	}, []string{"product"})
	reg.MustRegister(duration, requests, redirects)
	return &HTTPMetrics{
		duration:  duration,
		requests:  requests,
		redirects: redirects,
	}
}

// ObserveRequest records one served request.
func (h *HTTPMetrics) ObserveRequest(route, method, status string, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	h.duration.WithLabelValues(normalizeLabel(route), normalizeLabel(method)).Observe(duration.Seconds())
	h.requests.WithLabelValues(normalizeLabel(route), normalizeLabel(method), normalizeLabel(status)).Inc()
}

// IncRedirect increments the redirect counter for the named product.
func (h *HTTPMetrics) IncRedirect(product string) {
	if h == nil || h.redirects == nil {
		return
	}
	h.redirects.WithLabelValues(normalizeLabel(product)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
