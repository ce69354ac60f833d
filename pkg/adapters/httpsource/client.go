// Package httpsource implements ports.SnapshotSource against the real
// Pulse Predict HTTP service.
//
// Scan is idempotent and wrapped in bounded retries plus a circuit breaker;
// Execute performs a side effect and is never retried here (the executor's
// simulated-success fallback covers its failure path).
package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/sony/gobreaker"

	"github.com/pulsepredict/sentinel/internal/logging"
	"github.com/pulsepredict/sentinel/pkg/domain"
	"github.com/pulsepredict/sentinel/pkg/observability"
	"github.com/pulsepredict/sentinel/pkg/ports"
)

const (
	scanPath    = "/system/scan"
	executePath = "/system/execute_action"
)

// Client talks to the snapshot source over HTTP(S) JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics

	cb           *gobreaker.CircuitBreaker
	scanAttempts uint
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests, custom transport).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics wires the breaker state gauge.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithScanAttempts bounds the retry budget for scan requests.
func WithScanAttempts(n uint) Option {
	return func(c *Client) { c.scanAttempts = n }
}

// New creates a client for the service at baseURL (no trailing slash).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       logging.NewNop(),
		metrics:      observability.NewMetrics(nil),
		scanAttempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "snapshot-source",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("source breaker state change", "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				c.metrics.BreakerState.Set(1)
			} else {
				c.metrics.BreakerState.Set(0)
			}
		},
	})

	return c
}

type scanRequest struct {
	Action string `json:"action"`
}

type scanResponse struct {
	Success  bool             `json:"success"`
	LiveData *domain.Snapshot `json:"live_data"`
}

type executeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Scan requests an initial_scan. Transient failures are retried with
// backoff; while the breaker is open the call fails fast without touching
// the network. Every failure mode collapses into domain.ErrSourceUnavailable.
func (c *Client) Scan(ctx context.Context) (*domain.Snapshot, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		var snap *domain.Snapshot

		r := retry.New(
			retry.Context(ctx),
			retry.Attempts(c.scanAttempts),
		)
		retryErr := r.Do(func() error {
			var callErr error
			snap, callErr = c.scanOnce(ctx)
			return callErr
		})

		return snap, retryErr
	})
	if err != nil {
		c.logger.Debug("scan failed", "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return result.(*domain.Snapshot), nil
}

func (c *Client) scanOnce(ctx context.Context) (*domain.Snapshot, error) {
	var resp scanResponse
	if err := c.post(ctx, scanPath, scanRequest{Action: "initial_scan"}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.LiveData == nil {
		return nil, fmt.Errorf("scan: service reported failure")
	}
	return resp.LiveData, nil
}

// Execute forwards an approved action. No retries: execution is not
// idempotent on the service side.
func (c *Client) Execute(ctx context.Context, req ports.ExecuteRequest) (ports.ExecuteResult, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		var resp executeResponse
		if err := c.post(ctx, executePath, req, &resp); err != nil {
			return nil, err
		}
		if !resp.Success {
			return nil, fmt.Errorf("execute: service reported failure")
		}
		return ports.ExecuteResult{Message: resp.Message}, nil
	})
	if err != nil {
		c.logger.Debug("execute failed", "action_id", req.ActionID, "err", err)
		return ports.ExecuteResult{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return result.(ports.ExecuteResult), nil
}

// post sends a JSON body and decodes a JSON response, treating any non-2xx
// status as an error.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
