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
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// maxErrorBody caps how much of a failed response is kept on APIError.
	maxErrorBody = 4 << 10
)

var ErrTimeout = errors.New("request timeout")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

type Options struct {
	// Timeout bounds each attempt, not the whole call.
	Timeout  time.Duration
	Attempts int
	// Delay is multiplied by the attempt number between retries.
	Delay time.Duration
	HTTP  *http.Client
}

type Client struct {
	Name    string
	BaseURL *url.URL

	http     *http.Client
	timeout  time.Duration
	attempts int
	delay    time.Duration
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewClient(name, baseURL string, opts Options, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", name, baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme must be http or https", name, baseURL)
	}

	c := &Client{
		Name:     name,
		BaseURL:  u,
		http:     opts.HTTP,
		timeout:  opts.Timeout,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   logger,
		sleep:    sleep,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.attempts <= 0 {
		c.attempts = DefaultAttempts
	}
	if c.delay <= 0 {
		c.delay = DefaultDelay
	}
	return c, nil
}

// DoJSON sends in as a JSON body (when non-nil) and decodes a 2xx response
// into out (when non-nil). Timeouts, transport failures and 5xx answers are
// retried; 4xx answers are returned at once as *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", c.Name, err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.delay*time.Duration(attempt-1)); err != nil {
				return err
			}
		}

		err := c.do(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		c.logger.Warn("backend request failed",
			zap.String("backend", c.Name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	u := c.BaseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cid := middleware.GetCorrelationID(ctx); cid != "" {
		req.Header.Set(middleware.HeaderCorrelationID, cid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s %s: %w", method, path, ErrTimeout)
		}
		return fmt.Errorf("decode %s response: %w", c.Name, err)
	}
	return nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// UserMessage turns a backend error into text fit for a customer.
func UserMessage(err error) string {
	if errors.Is(err, ErrTimeout) {
		return "Request timeout. Please check your connection."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return "Session expired. Please login again."
		case http.StatusForbidden:
			return "Access denied. Please contact support."
		case http.StatusNotFound:
			return "Resource not found."
		case http.StatusInternalServerError:
			return "Server error. Please try again later."
		}
	}
	return "Something went wrong. Please try again."
}
