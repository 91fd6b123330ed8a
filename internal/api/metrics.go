package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds pullconfd's self-observability instruments (SPEC_FULL.md
// §2, prometheus/client_golang row). This is server-side observability of
// the server's own request handling, distinct from the client-reporting
// non-goal in spec.md §3.
type Metrics struct {
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	reloads    *prometheus.CounterVec
	catalogGen *prometheus.GaugeVec
}

// NewMetrics registers pullconfd's metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pullconfd_http_requests_total",
			Help: "Total HTTP requests served, by route and status.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pullconfd_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pullconfd_reloads_total",
			Help: "Catalog reload attempts, by outcome.",
		}, []string{"outcome"}),
		catalogGen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pullconfd_catalog_clients",
			Help: "Number of clients in the currently published catalog snapshot.",
		}, []string{}),
	}
	reg.MustRegister(m.requests, m.duration, m.reloads, m.catalogGen)
	return m
}

func (m *Metrics) observeRequest(route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveReload records the outcome of one reload attempt.
func (m *Metrics) ObserveReload(outcome string) {
	m.reloads.WithLabelValues(outcome).Inc()
}

// SetCatalogClients records the client count of the just-published
// snapshot.
func (m *Metrics) SetCatalogClients(n int) {
	m.catalogGen.WithLabelValues().Set(float64(n))
}

// Handler returns the /metrics HTTP handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
