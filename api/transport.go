package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ski-planner/config"
	"ski-planner/utils"

	"github.com/google/uuid"
)

// Request describes one call against the backend
type Request struct {
	Op      string // short name used in logs
	Method  string
	Path    string // relative to the API base, e.g. "/stations"
	Query   url.Values
	FailMsg string // user-facing message prefix on non-2xx responses
}

// Transport performs JSON requests against the backend with rate limiting and retries
type Transport struct {
	baseURL     string
	client      *http.Client
	rateLimiter *utils.RateLimiter
	maxRetries  int
	logger      *utils.Logger
}

// NewTransport creates a Transport from configuration
func NewTransport(cfg *config.Config, logger *utils.Logger) *Transport {
	return &Transport{
		baseURL:     cfg.APIBase,
		client:      &http.Client{Timeout: time.Duration(cfg.RequestTimeoutMs) * time.Millisecond},
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		maxRetries:  cfg.MaxRetries,
		logger:      logger,
	}
}

// URL returns the absolute URL of req
func (t *Transport) URL(req Request) string {
	u := t.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// Do sends req and decodes a JSON body into out (skipped when out is nil).
// 4xx responses are returned as *APIError without retrying; 5xx and network errors are retried.
func (t *Transport) Do(ctx context.Context, req Request, out interface{}) error {
	if err := t.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	target := t.URL(req)
	err := utils.RetryWithBackoff(ctx, t.maxRetries, func() error {
		return t.once(ctx, req, target, out)
	}, t.logger)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.logger.Error("%s %s: %d %s", req.Method, target, apiErr.Status, apiErr.Message)
		return apiErr
	}
	t.logger.Error("%s %s: %v", req.Method, target, err)
	return fmt.Errorf("%s: %w", req.Op, err)
}

func (t *Transport) once(ctx context.Context, req Request, target string, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, nil)
	if err != nil {
		return utils.Permanent(fmt.Errorf("build request: %w", err))
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	t.logger.Debug("%s %s [%s]", req.Method, target, requestID)
	resp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return utils.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		apiErr := &APIError{
			Op:      req.Op,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("%s: %s", req.FailMsg, http.StatusText(resp.StatusCode)),
		}
		if resp.StatusCode >= 500 {
			return apiErr
		}
		return utils.Permanent(apiErr)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return utils.Permanent(fmt.Errorf("decode %s response: %w", req.Op, err))
	}
	return nil
}
