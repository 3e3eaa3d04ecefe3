package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubFeed struct {
	err error
}

func (s stubFeed) HealthCheck(ctx context.Context) error { return s.err }

func newTestServer(db DatabasePinger, feed FeedChecker) *Server {
	return NewServer(Config{
		ServiceName: "sharp-picks-test",
		Version:     "test",
		Port:        "0",
		DB:          db,
		Feed:        feed,
	})
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sharp-picks-test")
}

func TestHandleReadyNotReady(t *testing.T) {
	s := newTestServer(stubPinger{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	s.handleReady(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestHandleReadyDatabaseFailure(t *testing.T) {
	s := newTestServer(stubPinger{err: errors.New("connection refused")}, nil)
	s.SetReady(true)
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	s.handleReady(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database")
}

func TestHandleReadyFeedFailureDoesNotBlockReadiness(t *testing.T) {
	s := newTestServer(stubPinger{}, stubFeed{err: errors.New("feed down")})
	s.SetReady(true)
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	s.handleReady(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "projections")
}

func TestHandleReadyAllHealthy(t *testing.T) {
	s := newTestServer(stubPinger{}, stubFeed{})
	s.SetReady(true)
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	s.handleReady(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
