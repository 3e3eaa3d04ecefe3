package repository

import (
	"fmt"

	"github.com/yourusername/sharp-picks/internal/database"
)

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Samples:     NewPostgresSampleRepository(db),
		Calibration: NewPostgresCalibrationRepository(db),
	}, nil
}
