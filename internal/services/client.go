// HTTP+JSON client for the SolveX API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

const (
	DefaultBaseURL = shared.DefaultAPIURL
	// RequestIDHeader carries a generated id on every request so server logs can be correlated.
	RequestIDHeader = "X-Request-ID"

	genericFailure = "API request failed"
)

// APIError is a non-2xx response normalised to a single message.
//
// Error returns only the message; Status and RequestID are kept for logging.
type APIError struct {
	Message   string
	Status    int
	RequestID string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client issues JSON requests against the SolveX API base address.
//
// Requests are never retried. A configured rate limit only spaces requests out.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit throttles the client to rps requests per second. Zero disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for baseURL, falling back to [DefaultBaseURL] when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised base address.
func (c *Client) BaseURL() string { return c.baseURL }

// URL joins path onto the base address, adding a leading slash when missing.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do sends a JSON request and decodes a 2xx response into out.
//
// A nil body sends no payload; a nil out discards the response body.
// Decoded values implementing [models.Validator] are validated before returning.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", req.URL.Path, "request_id", requestID, "err", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Message:   errorMessage(data),
			Status:    resp.StatusCode,
			RequestID: requestID,
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrMalformedResponse, method, path, err)
	}

	if v, ok := out.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s %s: %v", shared.ErrMalformedResponse, method, path, err)
		}
	}
	return nil
}

type validationDetail struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// errorMessage extracts a readable message from an error body.
//
// A string detail is used as is. A list of validation details becomes
// "loc.joined: msg" fragments joined by ", ". Anything else is the generic failure.
func errorMessage(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return genericFailure
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		if strings.TrimSpace(detail) == "" {
			return genericFailure
		}
		return detail
	}

	var details []validationDetail
	if err := json.Unmarshal(body.Detail, &details); err != nil || len(details) == 0 {
		return genericFailure
	}

	parts := make([]string, 0, len(details))
	for _, d := range details {
		loc := make([]string, len(d.Loc))
		for i, l := range d.Loc {
			loc[i] = fmt.Sprint(l)
		}
		if len(loc) == 0 {
			parts = append(parts, d.Msg)
			continue
		}
		parts = append(parts, strings.Join(loc, ".")+": "+d.Msg)
	}
	return strings.Join(parts, ", ")
}

// getList fetches a JSON array and validates every element.
func getList[T any, PT interface {
	*T
	models.Validator
}](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if err := c.Do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	if err := models.ValidateAll[T, PT](items); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", shared.ErrMalformedResponse, path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// withQuery appends an encoded query string to path when it is non-empty.
func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
