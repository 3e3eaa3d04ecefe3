package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrInvalidID        = errors.New("invalid ID format")
	ErrSegmentRequired  = errors.New("segment key is required")
	ErrInvalidCandidate = errors.New("candidate is malformed")
)
