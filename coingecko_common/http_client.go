package coingecko_common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/status-im/wallet-aggregator/interfaces"
)

// IHttpStatusHandler receives the outcome of every request
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
}

// Request statuses reported to IHttpStatusHandler
const (
	StatusSuccess      = "success"
	StatusRequestError = "error"
	StatusRateLimited  = "rate_limited"
	StatusUnavailable  = "unavailable"
)

// ClientOptions configures HTTPClient
type ClientOptions struct {
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// StatusError is returned for non-200 responses
type StatusError struct {
	StatusCode int
	RetryAfter string
	Body       string
}

func (e *StatusError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("status %d, retry after %s: %s", e.StatusCode, e.RetryAfter, e.Body)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Unwrap maps the status to a lookup sentinel
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return interfaces.ErrRateLimited
	case e.StatusCode >= 500:
		return interfaces.ErrUnavailable
	default:
		return nil
	}
}

// HTTPClient executes single-shot requests behind per-key rate limiters.
// Failures are returned as is; callers decide what to do with them.
type HTTPClient struct {
	Client         *http.Client
	StatusHandler  IHttpStatusHandler
	LimiterManager IRateLimiterManager
}

// NewHTTPClient creates a new rate limited HTTP client
func NewHTTPClient(opts ClientOptions, handler IHttpStatusHandler, limiterManager IRateLimiterManager) *HTTPClient {
	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	return &HTTPClient{
		Client:         client,
		StatusHandler:  handler,
		LimiterManager: limiterManager,
	}
}

func (c *HTTPClient) report(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}

// ExecuteRequest waits for the limiter of the request's key, performs the
// request once and returns the body of a 200 response.
func (c *HTTPClient) ExecuteRequest(req *http.Request) ([]byte, time.Duration, error) {
	if c.LimiterManager != nil {
		if limiter := c.LimiterManager.GetLimiterForURL(req.URL); limiter != nil {
			if err := limiter.Wait(req.Context()); err != nil {
				c.report(StatusRequestError)
				return nil, 0, fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.report(StatusRequestError)
			return nil, duration, err
		}
		c.report(StatusUnavailable)
		return nil, duration, fmt.Errorf("%w: request failed after %.2fs: %v", interfaces.ErrUnavailable, duration.Seconds(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			statusErr.RetryAfter = resp.Header.Get("Retry-After")
			c.report(StatusRateLimited)
		case resp.StatusCode >= 500:
			c.report(StatusUnavailable)
		default:
			c.report(StatusRequestError)
		}
		return nil, duration, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.report(StatusRequestError)
		return nil, duration, fmt.Errorf("error reading response: %w", err)
	}

	c.report(StatusSuccess)
	return body, duration, nil
}
