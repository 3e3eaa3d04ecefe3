package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/models"
)

// PostgresSampleRepository implements SampleRepository for PostgreSQL
type PostgresSampleRepository struct {
	db *database.DB
}

// NewPostgresSampleRepository creates a new sample repository
func NewPostgresSampleRepository(db *database.DB) SampleRepository {
	return &PostgresSampleRepository{db: db}
}

// InsertBatch appends settled samples using high-performance batch insert
func (r *PostgresSampleRepository) InsertBatch(ctx context.Context, samples []*models.CalibrationSample) error {
	if len(samples) == 0 {
		return nil
	}

	columns := []string{"id", "engine", "sport", "bet_type", "predicted", "actual", "weight", "settled_at", "created_at"}

	rows := make([][]interface{}, len(samples))
	now := time.Now().UTC()
	for i, s := range samples {
		id := s.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		weight := s.Weight
		if weight <= 0 {
			weight = 1
		}
		rows[i] = []interface{}{
			id, s.Engine, s.Sport, s.BetType, s.Predicted, s.Actual, weight, s.SettledAt, now,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"calibration_samples"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert calibration samples: %w", err)
	}
	if count != int64(len(samples)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(samples))
	}

	return nil
}

// GetByKey retrieves samples for a segment settled at or after since
func (r *PostgresSampleRepository) GetByKey(ctx context.Context, key models.MappingKey, since time.Time) ([]*models.CalibrationSample, error) {
	query := `
		SELECT id, engine, sport, bet_type, predicted, actual, weight, settled_at, created_at
		FROM calibration_samples
		WHERE engine = $1 AND sport = $2 AND bet_type = $3 AND settled_at >= $4
		ORDER BY settled_at ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, key.Engine, key.Sport, key.BetType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.CalibrationSample
	for rows.Next() {
		s := &models.CalibrationSample{}
		err := rows.Scan(
			&s.ID, &s.Engine, &s.Sport, &s.BetType, &s.Predicted, &s.Actual, &s.Weight, &s.SettledAt, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration sample: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// CountByKey returns the total number of settled samples for a segment
func (r *PostgresSampleRepository) CountByKey(ctx context.Context, key models.MappingKey) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM calibration_samples
		WHERE engine = $1 AND sport = $2 AND bet_type = $3
	`

	var count int64
	err := r.db.GetPool().QueryRow(ctx, query, key.Engine, key.Sport, key.BetType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count calibration samples: %w", err)
	}

	return count, nil
}
