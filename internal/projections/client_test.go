package projections

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/models"
)

func validProp() propPayload {
	return propPayload{
		PlayerID:       "0b49a1f2-3c44-4e76-9d2e-cc77c3a1b9ee",
		PlayerName:     "Test Player",
		Team:           "BOS",
		Category:       "points",
		Line:           "24.5",
		Direction:      "over",
		ProjectedValue: "28.5",
		Uncertainty:    "2.0",
		Role:           "star",
		AvgMinutes:     34,
		FatigueScore:   70,
		RiskFlags:      []string{"line_movement"},
		RawConfidence:  65,
	}
}

func TestToCandidateParsesDecimals(t *testing.T) {
	c, err := validProp().toCandidate()
	require.NoError(t, err)

	assert.Equal(t, 24.5, c.Line)
	assert.Equal(t, 28.5, c.ProjectedValue)
	assert.Equal(t, 2.0, c.Uncertainty)
	assert.Equal(t, models.DirectionOver, c.Direction)
	assert.Equal(t, models.RoleStar, c.Role)
	assert.True(t, c.HasRiskFlag(models.RiskFlagLineMovement))
}

func TestToCandidateRejectsMalformedFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *propPayload)
	}{
		{"bad player id", func(p *propPayload) { p.PlayerID = "not-a-uuid" }},
		{"bad line", func(p *propPayload) { p.Line = "24.5pts" }},
		{"bad projected value", func(p *propPayload) { p.ProjectedValue = "" }},
		{"bad uncertainty", func(p *propPayload) { p.Uncertainty = "n/a" }},
		{"unknown direction", func(p *propPayload) { p.Direction = "push" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProp()
			tt.mutate(&p)
			_, err := p.toCandidate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPayload))
		})
	}
}

func newTestClient(baseURL string) *HTTPClient {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return NewHTTPClient(&config.ProjectionsConfig{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		TimeoutSeconds:  2,
		RetryAttempts:   0,
		RateLimit:       100,
		CacheTTLSeconds: 60,
		CacheMaxSize:    10,
	}, log)
}

func TestFetchSlateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/slates/nba/2026-01-15/props", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		fmt.Fprint(w, `{
			"slate_date": "2026-01-15",
			"sport": "nba",
			"props": [{
				"player_id": "0b49a1f2-3c44-4e76-9d2e-cc77c3a1b9ee",
				"player_name": "Test Player",
				"team": "BOS",
				"category": "points",
				"line": "24.5",
				"direction": "over",
				"projected_value": "28.5",
				"uncertainty": "2.0",
				"role": "star",
				"avg_minutes": 34,
				"fatigue_score": 70,
				"raw_confidence": 65
			}]
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	candidates, err := client.FetchSlate(context.Background(), "nba", "2026-01-15")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Test Player", candidates[0].PlayerName)
	assert.Equal(t, 24.5, candidates[0].Line)
}

func TestFetchSlateEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"slate_date": "2026-01-15", "sport": "nba", "props": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchSlate(context.Background(), "nba", "2026-01-15")
	assert.True(t, errors.Is(err, ErrEmptySlate))
}

func TestFetchSlateMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"props": [`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchSlate(context.Background(), "nba", "2026-01-15")
	assert.True(t, errors.Is(err, ErrInvalidPayload))
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < circuitBreakerMax; i++ {
		_, err := client.FetchSlate(context.Background(), "nba", "2026-01-15")
		require.Error(t, err)
	}
	before := calls.Load()

	// The breaker is open: no request reaches the server.
	_, err := client.FetchSlate(context.Background(), "nba", "2026-01-15")
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, before, calls.Load())

	// Reset closes it again.
	client.Reset()
	_, err = client.FetchSlate(context.Background(), "nba", "2026-01-15")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCircuitOpen))
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.HealthCheck(context.Background()))
}
