package models

import (
	"time"

	"github.com/google/uuid"
)

// CalibrationSample is a settled prediction paired with its outcome.
// Rows are append-only; the recalibration batch only ever reads them.
type CalibrationSample struct {
	ID        uuid.UUID `json:"id"`
	Engine    string    `json:"engine"`
	Sport     string    `json:"sport"`
	BetType   string    `json:"bet_type"`
	Predicted float64   `json:"predicted"`
	Actual    float64   `json:"actual"`
	Weight    float64   `json:"weight"`
	SettledAt time.Time `json:"settled_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MappingKey identifies one derived isotonic mapping
type MappingKey struct {
	Engine  string `json:"engine"`
	Sport   string `json:"sport"`
	BetType string `json:"bet_type"`
}

// String returns the cache/log form of the key
func (k MappingKey) String() string {
	return k.Engine + ":" + k.Sport + ":" + k.BetType
}

// BucketKey identifies one derived calibration-bucket table entry
type BucketKey struct {
	Engine string `json:"engine"`
	Sport  string `json:"sport"`
	Window string `json:"window"`
}

// String returns the log form of the key
func (k BucketKey) String() string {
	return k.Engine + ":" + k.Sport + ":" + k.Window
}
