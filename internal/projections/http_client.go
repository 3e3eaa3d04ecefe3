package projections

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
)

// circuitBreakerMax is the number of consecutive failures before the
// client stops calling the feed until a success resets it.
const circuitBreakerMax = 5

// HTTPClient implements Client over the feed's REST API with retries,
// rate limiting and a simple circuit breaker.
type HTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	cfg     *config.ProjectionsConfig
	logger  *logrus.Logger

	mu                sync.Mutex
	consecutiveErrors int
	lastError         error
}

// NewHTTPClient creates a projection feed client from configuration
func NewHTTPClient(cfg *config.ProjectionsConfig, log *logrus.Logger) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = nil

	return &HTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		cfg:     cfg,
		logger:  log,
	}
}

// FetchSlate retrieves and converts the prop slate for a sport/date
func (c *HTTPClient) FetchSlate(ctx context.Context, sport, date string) ([]*models.Candidate, error) {
	url := fmt.Sprintf("%s/v1/slates/%s/%s/props", c.cfg.BaseURL, sport, date)

	body, err := c.get(ctx, url)
	if err != nil {
		metrics.RecordProjectionFetch("error")
		return nil, err
	}

	var payload slatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordProjectionFetch("error")
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(payload.Props) == 0 {
		metrics.RecordProjectionFetch("empty")
		return nil, ErrEmptySlate
	}

	candidates := make([]*models.Candidate, 0, len(payload.Props))
	for _, prop := range payload.Props {
		candidate, err := prop.toCandidate()
		if err != nil {
			// One malformed prop poisons the whole slate; the feed is
			// expected to be internally consistent.
			metrics.RecordProjectionFetch("error")
			return nil, err
		}
		candidates = append(candidates, candidate)
	}

	metrics.RecordProjectionFetch("success")
	c.logger.WithFields(logrus.Fields{
		"sport":      sport,
		"date":       date,
		"candidates": len(candidates),
	}).Debug("Fetched projection slate")

	return candidates, nil
}

// HealthCheck verifies the feed is reachable
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	_, err := c.get(ctx, c.cfg.BaseURL+"/v1/health")
	return err
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	c.mu.Lock()
	if c.consecutiveErrors >= circuitBreakerMax {
		lastErr := c.lastError
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: last error: %v", ErrCircuitOpen, lastErr)
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		c.recordFailure(err)
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.recordSuccess()
	return body, nil
}

func (c *HTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors == circuitBreakerMax {
		c.logger.WithError(err).Warn("Projection feed circuit breaker opened")
	}
}

func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.lastError = nil
}

// Reset closes the circuit breaker manually
func (c *HTTPClient) Reset() {
	c.recordSuccess()
}
