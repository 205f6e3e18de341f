// Package metrics exposes gateway request counters on a prometheus
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	invocations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	limited     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Gateway API requests by operation and status code.",
	}, []string{"operation", "code"})

	m.invocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_route_invocations_total",
		Help: "Route invocations by route name and upstream status code.",
	}, []string{"route", "code"})

	m.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Gateway request latency by operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	m.limited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_rate_limited_total",
		Help: "Invocations rejected by the per-route rate limit.",
	}, []string{"route"})

	m.registry.MustRegister(m.requests, m.invocations, m.latency, m.limited)
	return m
}

func (m *Metrics) ObserveRequest(operation string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveInvocation(route string, code int) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveRateLimited(route string) {
	if m == nil {
		return
	}
	m.limited.WithLabelValues(route).Inc()
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
