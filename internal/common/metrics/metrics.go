// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustering_predictions_completed_total",
			Help: "Total number of prediction requests served",
		},
		[]string{"mode"},
	)

	PredictionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustering_predictions_failed_total",
			Help: "Total number of prediction requests rejected or failed",
		},
		[]string{"mode", "error_code"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "clustering_prediction_duration_seconds",
			Help: "Duration of prediction handling in seconds",
		},
		[]string{"mode"},
	)

	RequestsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clustering_requests_active",
			Help: "Number of prediction requests currently in flight",
		},
		[]string{"mode"},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clustering_batch_size",
			Help:    "Distribution of accepted batch sizes",
			Buckets: []float64{1, 5, 10, 25, 50, 75, 100},
		},
	)

	ClusterAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clustering_assignments_total",
			Help: "Total number of records assigned per cluster",
		},
		[]string{"cluster"},
	)
)
