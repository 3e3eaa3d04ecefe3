// Package metrics provides the centralized Prometheus registry for the
// calibration-and-selection pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RecalibrationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "recalibration_runs_total",
		Help:      "Total number of recalibration batches by outcome",
	}, []string{"outcome"})
	SamplesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "samples_processed_total",
		Help:      "Total number of settled samples scored",
	})
	SlipsBuiltTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "slips_built_total",
		Help:      "Total number of slips built by validity",
	}, []string{"valid"})
	GateRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "gate_rejections_total",
		Help:      "Total number of candidate rejections by gate",
	}, []string{"gate"})
	ProjectionFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharp_picks",
		Name:      "projection_fetches_total",
		Help:      "Total number of projection feed requests by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	CalibrationBrierScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "calibration_brier_score",
		Help:      "Latest Brier score per segment",
	}, []string{"segment"})
	CalibrationECE = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "calibration_ece",
		Help:      "Latest expected calibration error per segment",
	}, []string{"segment"})
	MappingPointCount = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "mapping_point_count",
		Help:      "Control points in the latest isotonic mapping per segment",
	}, []string{"segment"})
	MappingCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sharp_picks",
		Name:      "mapping_cache_hit_ratio",
		Help:      "Hit ratio of the derived mapping cache",
	})
)

// Histogram metrics
var (
	RecalibrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "recalibration_duration_seconds",
		Help:      "Duration of recalibration batches in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SlipBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sharp_picks",
		Name:      "slip_build_duration_seconds",
		Help:      "Duration of slip construction in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RecalibrationRunsTotal)
		registry.MustRegister(SamplesProcessedTotal)
		registry.MustRegister(SlipsBuiltTotal)
		registry.MustRegister(GateRejectionsTotal)
		registry.MustRegister(ProjectionFetchesTotal)

		registry.MustRegister(CalibrationBrierScore)
		registry.MustRegister(CalibrationECE)
		registry.MustRegister(MappingPointCount)
		registry.MustRegister(MappingCacheHitRatio)

		registry.MustRegister(RecalibrationDuration)
		registry.MustRegister(SlipBuildDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRecalibration records one recalibration batch.
func RecordRecalibration(outcome string, durationSeconds float64, samples int) {
	RecalibrationRunsTotal.WithLabelValues(outcome).Inc()
	RecalibrationDuration.Observe(durationSeconds)
	SamplesProcessedTotal.Add(float64(samples))
}

// UpdateSegmentCalibration updates the per-segment calibration gauges.
func UpdateSegmentCalibration(segment string, brier, ece float64, mappingPoints int) {
	CalibrationBrierScore.WithLabelValues(segment).Set(brier)
	CalibrationECE.WithLabelValues(segment).Set(ece)
	MappingPointCount.WithLabelValues(segment).Set(float64(mappingPoints))
}

// RecordSlipBuilt records one slip construction.
func RecordSlipBuilt(valid bool, durationSeconds float64) {
	label := "false"
	if valid {
		label = "true"
	}
	SlipsBuiltTotal.WithLabelValues(label).Inc()
	SlipBuildDuration.Observe(durationSeconds)
}

// RecordGateRejection records a candidate rejected by a gate.
func RecordGateRejection(gate string) {
	GateRejectionsTotal.WithLabelValues(gate).Inc()
}

// RecordProjectionFetch records a projection feed request.
func RecordProjectionFetch(outcome string) {
	ProjectionFetchesTotal.WithLabelValues(outcome).Inc()
}
