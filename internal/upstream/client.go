// Package upstream is the shared JSON-over-HTTP client used by the catalog and
// character API wrappers: retries with backoff, status mapping and metrics.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/ChocoboBot_Go/internal/domain"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/metrics"
)

// ErrNotFound is returned when the upstream answers 404
var ErrNotFound = errors.New("upstream resource not found")

// Config configures a Client
type Config struct {
	Service    string // metrics/log label, e.g. "ffxivcollect"
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// Query params appended to every request (API keys)
	DefaultParams url.Values
}

// Client performs GET requests against a JSON API
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a client; zero values fall back to package defaults
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Service returns the metrics label of this client
func (c *Client) Service() string {
	return c.cfg.Service
}

// GetJSON fetches path and decodes the body into out.
// 404 yields ErrNotFound; exhausted retries yield domain.ErrUpstreamUnavailable.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.GetBytes(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode %s: %v", domain.ErrUpstreamUnavailable, c.cfg.Service, path, err)
	}
	return nil
}

// GetBytes fetches path and returns the raw body
func (c *Client) GetBytes(ctx context.Context, path string, params url.Values) ([]byte, error) {
	resp, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: read %s: %v", domain.ErrUpstreamUnavailable, c.cfg.Service, path, err)
	}
	return body, nil
}

// doRequest performs an HTTP request with retry logic
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	log := logger.FromContext(ctx)
	target := c.buildURL(path, params)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.cfg.RetryDelay, attempt)
			metrics.UpstreamRetries.WithLabelValues(c.cfg.Service).Inc()
			log.Info("Retrying upstream request", "service", c.cfg.Service, "attempt", attempt, "path", path, "delay", delay)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.cfg.UserAgent)

		start := time.Now()
		resp, err := c.http.Do(req)
		metrics.UpstreamRequestDuration.WithLabelValues(c.cfg.Service).Observe(time.Since(start).Seconds())
		if err != nil {
			// A cancelled caller must not be reported as an outage
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			metrics.UpstreamRequestsTotal.WithLabelValues(c.cfg.Service, "error").Inc()
			lastErr = err
			log.Warn("Upstream request failed", "service", c.cfg.Service, "error", err, "attempt", attempt)
			continue
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(c.cfg.Service, strconv.Itoa(resp.StatusCode)).Inc()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			drain(resp)
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, c.cfg.Service, path)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			drain(resp)
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			log.Warn("Upstream server error, will retry", "service", c.cfg.Service, "status", resp.StatusCode, "attempt", attempt)
			continue
		case resp.StatusCode >= 400:
			drain(resp)
			return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamUnavailable, c.cfg.Service, resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%w: %s: max retries exceeded: %v", domain.ErrUpstreamUnavailable, c.cfg.Service, lastErr)
}

func (c *Client) buildURL(path string, params url.Values) string {
	merged := url.Values{}
	for k, v := range c.cfg.DefaultParams {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}

	target := c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(merged) > 0 {
		target += "?" + merged.Encode()
	}
	return target
}

// backoff returns an exponential delay with up to 100ms of jitter
func backoff(base time.Duration, attempt int) time.Duration {
	jitter := time.Duration(rand.IntN(100)) * time.Millisecond
	return base*time.Duration(1<<uint(attempt-1)) + jitter
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
