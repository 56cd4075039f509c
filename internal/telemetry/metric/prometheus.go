package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Denial reasons for the redemptions_denied counter.
const (
	ReasonMissingToken = "missing_token"
	ReasonNotFound     = "not_found"
	ReasonExpired      = "expired"
	ReasonFileMissing  = "file_missing"
)

// Checkout outcomes for the checkouts counter.
const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds all application metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Grant metrics
	GrantsIssued      prometheus.Counter
	DownloadsServed   prometheus.Counter
	DownloadBytes     prometheus.Counter
	RedemptionsDenied *prometheus.CounterVec

	// Checkout metrics
	Checkouts *prometheus.CounterVec

	// Request metrics
	RequestDuration *prometheus.HistogramVec
}

// New creates the application metrics on a fresh registry, including
// the standard Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		GrantsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkgate",
			Name:      "grants_issued_total",
			Help:      "Download grants issued",
		}),
		DownloadsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkgate",
			Name:      "downloads_served_total",
			Help:      "Downloads served to clients",
		}),
		DownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "linkgate",
			Name:      "download_bytes_total",
			Help:      "Bytes streamed to downloading clients",
		}),
		RedemptionsDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkgate",
			Name:      "redemptions_denied_total",
			Help:      "Token redemptions denied, by reason",
		}, []string{"reason"}),

		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linkgate",
			Name:      "checkouts_total",
			Help:      "Checkout sessions requested, by outcome",
		}, []string{"outcome"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "linkgate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	registry.MustRegister(
		m.GrantsIssued,
		m.DownloadsServed,
		m.DownloadBytes,
		m.RedemptionsDenied,
		m.Checkouts,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry so other components (the
// Badger store) can register their own instruments alongside.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
