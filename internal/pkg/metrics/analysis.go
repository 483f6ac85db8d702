package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "canvasprint_analysis_duration_seconds",
			Help:    "Time spent grouping canvases and computing entropy",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"scope"},
	)

	analysisClasses = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "canvasprint_analysis_classes",
			Help: "Number of equivalence classes found by the latest analysis",
		},
		[]string{"scope"},
	)

	analysisEntropy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "canvasprint_analysis_entropy_bits",
			Help: "Shannon entropy of the latest analysis in bits",
		},
		[]string{"scope"},
	)

	analysisFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canvasprint_analysis_failures_total",
			Help: "Analyses that returned an error",
		},
		[]string{"scope"},
	)
)

// RecordAnalysis records the outcome of one grouping run. scope is the
// experiment name, or "samples" for the cross-experiment analysis.
func RecordAnalysis(scope string, duration time.Duration, classes int, entropy float64) {
	analysisDuration.WithLabelValues(scope).Observe(duration.Seconds())
	analysisClasses.WithLabelValues(scope).Set(float64(classes))
	analysisEntropy.WithLabelValues(scope).Set(entropy)
}

// RecordAnalysisFailure counts a failed grouping run
func RecordAnalysisFailure(scope string) {
	analysisFailures.WithLabelValues(scope).Inc()
}
