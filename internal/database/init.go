package database

import (
	"context"
	"fmt"

	"github.com/yourusername/sharp-picks/internal/config"
)

// Initialize creates a database connection pool and verifies the schema
// the batch pipeline depends on is present.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// The sample store is the one table nothing can run without.
	var exists bool
	err = db.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'calibration_samples')",
	).Scan(&exists)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if !exists {
		db.Close()
		return nil, fmt.Errorf("calibration_samples table not found; run database migrations first")
	}

	// Derived tables may legitimately be empty before the first batch.
	var sampleCount int64
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM calibration_samples").Scan(&sampleCount); err == nil && sampleCount == 0 {
		fmt.Println("Warning: sample store is empty; derived outputs will be degenerate until settlements arrive.")
	}

	return db, nil
}
