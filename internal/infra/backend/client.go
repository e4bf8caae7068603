// Package backend is the single request pipeline to the MJ backend. Every
// call attaches the current token, normalizes the {code, data, message}
// envelope, maps transport failures to fixed user-facing messages, and
// centralizes 401 handling so no caller ever duplicates it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/resilience"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var tracer = otel.Tracer("backend")

// Client wraps all HTTP calls to the MJ backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	store      port.StateStore
	notifier   port.Notifier
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient creates a backend client. The token is read fresh from the state
// store on every request, never cached here.
func NewClient(
	httpClient *http.Client,
	baseURL string,
	store port.StateStore,
	notifier port.Notifier,
	cb *gobreaker.CircuitBreaker,
	cfg resilience.Config,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Client {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		store:      store,
		notifier:   notifier,
		cb:         cb,
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(maxConcurrency),
		metrics:    metrics,
		logger:     logger,
	}
}

// SetUnauthorizedHandler registers the central 401 reaction (session expiry
// plus redirect to /login). Registered after construction because the session
// store itself calls through this client.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// retryableStatusError marks HTTP statuses worth retrying (5xx).
type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.status)
}

// do executes one backend call end to end. On success the envelope data is
// decoded into out (which may be nil when no payload is expected). On any
// failure exactly one user-visible notification is emitted and the returned
// error carries the same human-readable message.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	ctx, span := tracer.Start(ctx, "Backend."+operation)
	defer span.End()
	span.SetAttributes(attribute.String("http.method", method), attribute.String("http.path", path))

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(operation, time.Since(start))
	}()

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return c.failTransport(operation, 0)
	}
	defer c.bulkhead.Release()

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	// Captured by the retry closure: a definitive (non-retryable) outcome.
	var env *domain.Envelope
	var failStatus int
	var malformed bool

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			env, failStatus, malformed = nil, 0, false

			var reader io.Reader
			if payload != nil {
				reader = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
			if err != nil {
				return err
			}
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			req.Header.Set("X-Request-Id", uuid.NewString())

			// Token is read fresh from durable storage per request so a
			// concurrent login or reset is always reflected.
			if token, ok, _ := c.store.Get(ctx, statestore.KeyToken); ok && token != "" {
				req.Header.Set("Authorization", token)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err // network failure: retryable
			}
			defer resp.Body.Close()

			raw, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				if resp.StatusCode >= 500 {
					return &retryableStatusError{status: resp.StatusCode}
				}
				failStatus = resp.StatusCode
				return nil // definitive, do not retry
			}

			var e domain.Envelope
			if err := json.Unmarshal(raw, &e); err != nil {
				c.logger.Warn("backend: malformed envelope",
					zap.String("operation", operation),
					zap.Error(err),
				)
				malformed = true
				return nil
			}
			env = &e
			return nil
		})
	})

	switch {
	case err != nil:
		// Retries exhausted, circuit open, or cancelled: no usable response.
		status := 0
		var rse *retryableStatusError
		if errors.As(err, &rse) {
			status = rse.status
		}
		c.logger.Warn("backend: request failed",
			zap.String("operation", operation),
			zap.Int("status", status),
			zap.Error(err),
		)
		return c.failTransport(operation, status)

	case failStatus != 0:
		c.logger.Warn("backend: non-2xx response",
			zap.String("operation", operation),
			zap.Int("status", failStatus),
		)
		return c.failTransport(operation, failStatus)

	case malformed:
		return c.failTransport(operation, 0)
	}

	if !env.OK() {
		message := env.Message
		if message == "" {
			message = domain.MsgRequestFailed
		}
		c.notify(message)
		if env.Code == 401 {
			c.metrics.IncrBackendError("unauthorized")
			c.handleUnauthorized()
			return &domain.ErrUnauthorized{Message: message}
		}
		c.metrics.IncrBackendError("backend")
		c.logger.Warn("backend: envelope error",
			zap.String("operation", operation),
			zap.Int("code", env.Code),
			zap.String("message", env.Message),
		)
		return &domain.ErrBackend{Code: env.Code, Message: message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.logger.Warn("backend: unexpected data shape",
				zap.String("operation", operation),
				zap.Error(err),
			)
			c.notify(domain.MsgRequestFailed)
			c.metrics.IncrBackendError("backend")
			return &domain.ErrBackend{Code: env.Code, Message: domain.MsgRequestFailed}
		}
	}

	c.logger.Debug("backend: request OK",
		zap.String("operation", operation),
		zap.String("method", method),
		zap.String("path", path),
	)
	return nil
}

// failTransport notifies and returns the mapped transport failure for the
// given HTTP status (0 = no response at all). A 401 additionally triggers
// the central session expiry.
func (c *Client) failTransport(operation string, status int) error {
	message := domain.TransportMessage(status)
	c.notify(message)
	if status == 401 {
		c.metrics.IncrBackendError("unauthorized")
		c.handleUnauthorized()
		return &domain.ErrUnauthorized{Message: message}
	}
	c.metrics.IncrBackendError("transport")
	return &domain.ErrTransport{Status: status, Message: message}
}

func (c *Client) notify(message string) {
	if c.notifier != nil {
		c.notifier.Error(message)
	}
}

func (c *Client) handleUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
