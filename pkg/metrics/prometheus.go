package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	seriesPoints  *prometheus.GaugeVec
	cacheResults  *prometheus.CounterVec
	overlayEvents prometheus.Gauge
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steelpulse_fetches_total",
				Help: "Total upstream fetches by source and result",
			},
			[]string{"source", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steelpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		seriesPoints: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "steelpulse_series_points",
				Help: "Points in the last fetched series per source",
			},
			[]string{"source"},
		),
		cacheResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steelpulse_cache_results_total",
				Help: "Cache hits and misses per source",
			},
			[]string{"source", "result"},
		),
		overlayEvents: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "steelpulse_overlay_events",
				Help: "Events in the last computed overlay set",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "steelpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFetch records an upstream fetch attempt.
func (r *Recorder) RecordFetch(source string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.fetchesTotal.WithLabelValues(source, result).Inc()
}

// RecordSeriesPoints records the size of the last fetched series.
func (r *Recorder) RecordSeriesPoints(source string, n int) {
	r.seriesPoints.WithLabelValues(source).Set(float64(n))
}

// RecordCacheResult records a cache hit or miss.
func (r *Recorder) RecordCacheResult(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheResults.WithLabelValues(source, result).Inc()
}

// RecordOverlayEvents records the last overlay set size.
func (r *Recorder) RecordOverlayEvents(n int) {
	r.overlayEvents.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
