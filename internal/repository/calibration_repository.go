package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-picks/internal/calibration"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/models"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// ReplaceDerived swaps the derived buckets and mapping for a segment in
// a single transaction. Concurrent readers see either the previous
// complete outputs or the new complete outputs, never a mix.
func (r *PostgresCalibrationRepository) ReplaceDerived(ctx context.Context, bucketKey models.BucketKey,
	mappingKey models.MappingKey, buckets []calibration.Bucket, mapping calibration.Mapping) error {

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		now := time.Now().UTC()

		if _, err := tx.Exec(ctx,
			`DELETE FROM calibration_buckets WHERE engine = $1 AND sport = $2 AND time_window = $3`,
			bucketKey.Engine, bucketKey.Sport, bucketKey.Window,
		); err != nil {
			return fmt.Errorf("failed to clear calibration buckets: %w", err)
		}

		for _, b := range buckets {
			if _, err := tx.Exec(ctx, `
				INSERT INTO calibration_buckets
					(engine, sport, time_window, range_start, range_end, predicted_avg, actual_avg, count, confidence_lower, confidence_upper, computed_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				bucketKey.Engine, bucketKey.Sport, bucketKey.Window,
				b.RangeStart, b.RangeEnd, b.PredictedAvg, b.ActualAvg, b.Count,
				b.ConfidenceLower, b.ConfidenceUpper, now,
			); err != nil {
				return fmt.Errorf("failed to insert calibration bucket: %w", err)
			}
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM isotonic_mappings WHERE engine = $1 AND sport = $2 AND bet_type = $3`,
			mappingKey.Engine, mappingKey.Sport, mappingKey.BetType,
		); err != nil {
			return fmt.Errorf("failed to clear isotonic mapping: %w", err)
		}

		for i, p := range mapping {
			if _, err := tx.Exec(ctx, `
				INSERT INTO isotonic_mappings
					(engine, sport, bet_type, point_order, raw_probability, calibrated_probability, computed_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				mappingKey.Engine, mappingKey.Sport, mappingKey.BetType,
				i, p.Raw, p.Calibrated, now,
			); err != nil {
				return fmt.Errorf("failed to insert mapping point: %w", err)
			}
		}

		return nil
	})
}

// GetMapping loads the stored isotonic mapping for a segment. A missing
// mapping is returned as empty, not as an error; Apply treats an empty
// mapping as identity.
func (r *PostgresCalibrationRepository) GetMapping(ctx context.Context, key models.MappingKey) (calibration.Mapping, error) {
	query := `
		SELECT raw_probability, calibrated_probability
		FROM isotonic_mappings
		WHERE engine = $1 AND sport = $2 AND bet_type = $3
		ORDER BY point_order ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, key.Engine, key.Sport, key.BetType)
	if err != nil {
		return nil, fmt.Errorf("failed to query isotonic mapping: %w", err)
	}
	defer rows.Close()

	var mapping calibration.Mapping
	for rows.Next() {
		var p calibration.Point
		if err := rows.Scan(&p.Raw, &p.Calibrated); err != nil {
			return nil, fmt.Errorf("failed to scan mapping point: %w", err)
		}
		mapping = append(mapping, p)
	}

	return mapping, rows.Err()
}

// GetBuckets loads the stored calibration buckets for a segment
func (r *PostgresCalibrationRepository) GetBuckets(ctx context.Context, key models.BucketKey) ([]calibration.Bucket, error) {
	query := `
		SELECT range_start, range_end, predicted_avg, actual_avg, count, confidence_lower, confidence_upper
		FROM calibration_buckets
		WHERE engine = $1 AND sport = $2 AND time_window = $3
		ORDER BY range_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, key.Engine, key.Sport, key.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration buckets: %w", err)
	}
	defer rows.Close()

	var buckets []calibration.Bucket
	for rows.Next() {
		var b calibration.Bucket
		err := rows.Scan(
			&b.RangeStart, &b.RangeEnd, &b.PredictedAvg, &b.ActualAvg, &b.Count,
			&b.ConfidenceLower, &b.ConfidenceUpper,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration bucket: %w", err)
		}
		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}
