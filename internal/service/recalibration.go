package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
)

// RecalibrationJob identifies one batch: which segment's samples to
// score and which derived table rows to replace.
type RecalibrationJob struct {
	MappingKey models.MappingKey
	BucketKey  models.BucketKey
	Since      time.Time
}

// RecalibrationService runs the periodic batch that reads the
// append-only sample store and atomically replaces the derived
// buckets and mapping for a segment.
type RecalibrationService struct {
	samples  repository.SampleRepository
	derived  repository.CalibrationRepository
	mappings MappingProvider
	buckets  int
	log      *logrus.Logger
	batchLog *logger.CalibrationLogger
}

// NewRecalibrationService creates a recalibration service
func NewRecalibrationService(
	samples repository.SampleRepository,
	derived repository.CalibrationRepository,
	mappings MappingProvider,
	cfg *config.CalibrationConfig,
	log *logrus.Logger,
) *RecalibrationService {
	return &RecalibrationService{
		samples:  samples,
		derived:  derived,
		mappings: mappings,
		buckets:  cfg.NumBuckets,
		log:      log,
		batchLog: logger.NewCalibrationLogger(log),
	}
}

// Run executes one recalibration batch. An empty sample store is a
// normal cold-start condition: the degenerate summary (zero scores,
// empty mapping) is persisted so readers see explicit emptiness rather
// than stale data.
func (s *RecalibrationService) Run(ctx context.Context, job RecalibrationJob) (calibration.Summary, error) {
	start := time.Now()
	segment := job.MappingKey.String()

	rows, err := s.samples.GetByKey(ctx, job.MappingKey, job.Since)
	if err != nil {
		metrics.RecordRecalibration("error", time.Since(start).Seconds(), 0)
		return calibration.Summary{}, fmt.Errorf("failed to load samples for %s: %w", segment, err)
	}

	s.batchLog.LogBatchStarted(segment, len(rows))
	if len(rows) == 0 {
		s.batchLog.LogDegenerateBatch(segment)
	}

	samples := make([]calibration.Sample, len(rows))
	for i, row := range rows {
		samples[i] = calibration.Sample{
			Predicted: row.Predicted,
			Actual:    row.Actual,
			Weight:    row.Weight,
		}
	}

	engine := calibration.NewEngine(s.buckets, s.observer(segment))
	summary := engine.Score(samples)

	if err := s.derived.ReplaceDerived(ctx, job.BucketKey, job.MappingKey, summary.Buckets, summary.Mapping); err != nil {
		metrics.RecordRecalibration("error", time.Since(start).Seconds(), len(samples))
		return calibration.Summary{}, fmt.Errorf("failed to persist derived outputs for %s: %w", segment, err)
	}
	s.mappings.Invalidate(job.MappingKey)

	metrics.RecordRecalibration("success", time.Since(start).Seconds(), len(samples))
	metrics.UpdateSegmentCalibration(segment, summary.Decomposition.BrierScore, summary.ECE, len(summary.Mapping))
	s.batchLog.LogBatchCompleted(segment, summary.Decomposition.BrierScore, summary.ECE,
		len(summary.Mapping), len(summary.Buckets), summary.Grade.Grade)

	return summary, nil
}

// observer bridges engine progress events into debug logs without
// putting any logging inside the scoring functions themselves.
func (s *RecalibrationService) observer(segment string) calibration.Observer {
	return calibration.ObserverFunc(func(event string, fields map[string]float64) {
		entry := s.log.WithField("segment", segment)
		for k, v := range fields {
			entry = entry.WithField(k, v)
		}
		entry.Debug("calibration " + event)
	})
}
