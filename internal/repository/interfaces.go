// Package repository provides persistence for calibration samples and
// the derived reference tables read by decision cycles.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/models"
)

// SampleRepository reads and appends settled calibration samples. The
// sample store is append-only; the recalibration batch never mutates it.
type SampleRepository interface {
	InsertBatch(ctx context.Context, samples []*models.CalibrationSample) error
	GetByKey(ctx context.Context, key models.MappingKey, since time.Time) ([]*models.CalibrationSample, error)
	CountByKey(ctx context.Context, key models.MappingKey) (int64, error)
}

// CalibrationRepository owns the derived reference tables: calibration
// buckets keyed by (engine, sport, window) and isotonic mappings keyed
// by (engine, sport, bet type). ReplaceDerived swaps both atomically so
// readers never observe a partially updated mapping.
type CalibrationRepository interface {
	ReplaceDerived(ctx context.Context, bucketKey models.BucketKey, mappingKey models.MappingKey,
		buckets []calibration.Bucket, mapping calibration.Mapping) error
	GetMapping(ctx context.Context, key models.MappingKey) (calibration.Mapping, error)
	GetBuckets(ctx context.Context, key models.BucketKey) ([]calibration.Bucket, error)
}

// Repositories holds all repository implementations
type Repositories struct {
	Samples     SampleRepository
	Calibration CalibrationRepository
}
