// Package projections provides the client for the upstream projection
// feed that materializes prop candidates for a decision cycle.
package projections

import "errors"

var (
	// ErrFeedUnavailable indicates the projection feed is unreachable
	ErrFeedUnavailable = errors.New("projection feed unavailable")

	// ErrCircuitOpen indicates the circuit breaker has tripped
	ErrCircuitOpen = errors.New("projection feed circuit breaker open")

	// ErrInvalidPayload indicates the feed returned a malformed slate
	ErrInvalidPayload = errors.New("invalid projection payload")

	// ErrEmptySlate indicates the feed returned no props for the slate
	ErrEmptySlate = errors.New("projection slate is empty")
)
