package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Overlay outcomes.
const (
	OutcomeAccelerated = "accelerated"
	OutcomePassthrough = "passthrough"
	OutcomeFallback    = "fallback"
)

// Search overlay, bulk indexing and enrichment Prometheus metrics.
var (
	OverlayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "overlay_requests_total",
			Help:      "List requests seen by the search overlay",
		},
		[]string{"resource", "outcome"},
	)

	OverlaySearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizsearch",
			Name:      "overlay_search_duration_seconds",
			Help:      "Index search duration of rewritten requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"resource"},
	)

	IndexDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "index_documents_total",
			Help:      "Documents handed to the index engines",
		},
		[]string{"family"},
	)

	IndexErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "index_errors_total",
			Help:      "Failed bulk index writes",
		},
		[]string{"family"},
	)

	EnrichmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "enrichment_requests_total",
			Help:      "Outbound enrichment lookups",
		},
		[]string{"kind", "status"},
	)

	EnrichmentRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizsearch",
			Name:      "enrichment_request_duration_seconds",
			Help:      "Enrichment lookup duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	EnrichmentCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizsearch",
			Name:      "enrichment_cache_total",
			Help:      "Category cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// RegisterSearchMetrics registers the overlay, indexing and enrichment
// metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OverlayRequestsTotal,
			OverlaySearchDuration,
			IndexDocumentsTotal,
			IndexErrorsTotal,
			EnrichmentRequestsTotal,
			EnrichmentRequestDuration,
			EnrichmentCacheTotal,
		)
	})
}
