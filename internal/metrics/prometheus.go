package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimentiq_uploads_total",
			Help: "CSV uploads processed, by outcome",
		},
		[]string{"status"},
	)

	UploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentimentiq_upload_duration_seconds",
			Help:    "Time to parse, classify and aggregate one upload",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	RowsParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentimentiq_rows_parsed_total",
			Help: "CSV data rows accepted by the parser",
		},
	)

	RowsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentimentiq_rows_dropped_total",
			Help: "CSV data rows dropped for a field count mismatch",
		},
	)

	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimentiq_predictions_total",
			Help: "Reviews classified, by backend and sentiment",
		},
		[]string{"backend", "sentiment"},
	)

	ClassifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentimentiq_classify_duration_seconds",
			Help:    "Single classification latency by backend",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		},
		[]string{"backend"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentimentiq_confidence_score",
			Help:    "Confidence of returned predictions",
			Buckets: []float64{0.5, 0.55, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	ClassifierFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimentiq_classifier_fallbacks_total",
			Help: "Predictions answered by the keyword classifier after the primary failed",
		},
		[]string{"primary"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimentiq_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentimentiq_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	SnapshotReviews = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentimentiq_snapshot_reviews",
			Help: "Reviews in the current dashboard snapshot",
		},
	)

	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentimentiq_websocket_clients",
			Help: "Connected dashboard websocket clients",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			UploadsTotal,
			UploadDuration,
			RowsParsed,
			RowsDropped,
			PredictionsTotal,
			ClassifyDuration,
			ConfidenceScore,
			ClassifierFallbacks,
			CacheHits,
			CacheMisses,
			SnapshotReviews,
			WebSocketClients,
		)
	})
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
