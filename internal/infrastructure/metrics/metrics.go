package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for source attempts
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var (
	SourceAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_source_attempts_total",
			Help: "Total number of enrichment source attempts by outcome",
		},
		[]string{"source", "outcome"},
	)

	SourceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_source_duration_seconds",
			Help:    "Duration of a single enrichment source attempt in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	EnrichmentResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_results_total",
			Help: "Total number of enrichment pipeline results",
		},
		[]string{"result"}, // "accepted", "rejected"
	)

	BarcodeScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barcode_scans_total",
			Help: "Total number of barcode scans by outcome",
		},
		[]string{"outcome"}, // "found", "not_found", "no_barcode", "unreachable", "decode_error"
	)
)
