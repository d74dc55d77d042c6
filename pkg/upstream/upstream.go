// Package upstream wraps the rate-limited third-party data API and normalizes
// transport-level failures into the three classes the acquisition layer acts
// on: not-found, rate-limited, and everything else.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds every upstream request.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent identifies this client to the upstream API, which
	// requires callers to label themselves.
	DefaultUserAgent = "go-setcache/1.0"

	acceptHeader = "application/json"
)

var (
	// ErrNotFound signals the upstream reports the resource does not exist.
	ErrNotFound = errors.New("upstream resource not found")
	// ErrRateLimited signals the upstream rejected the call for exceeding
	// the allowed request rate. This client never retries; request spacing
	// is the invocation scheduler's responsibility.
	ErrRateLimited = errors.New("upstream rate limited")
)

// Response is the raw successful upstream result.
type Response struct {
	Status int
	Body   []byte
}

// Client performs a single upstream read.
type Client interface {
	Get(ctx context.Context, target string) (*Response, error)
}

// HTTPClientConfig holds configuration for the HTTP upstream client.
type HTTPClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// HTTPClient implements Client over net/http with a bounded per-request
// timeout and the fixed identifying headers the upstream requires.
type HTTPClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPClient creates a client bound to one upstream base address.
func NewHTTPClient(cfg *HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("upstream base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid upstream base URL: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "UpstreamHTTPClient").Logger(),
	}, nil
}

// Get performs one upstream read. The target may be a full URL or a path
// relative to the configured base address. Non-success statuses are
// classified: 404 yields ErrNotFound, 429 yields ErrRateLimited, and any
// other status or transport failure is wrapped as a plain error.
func (c *HTTPClient) Get(ctx context.Context, target string) (*Response, error) {
	requestURL := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		requestURL = c.baseURL + "/" + strings.TrimPrefix(target, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request for %s: %w", target, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request for %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to body read
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", target, ErrRateLimited)
	default:
		return nil, fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body for %s: %w", target, err)
	}

	c.logger.Debug().Str("target", target).Int("bytes", len(body)).Msg("Upstream fetch succeeded.")
	return &Response{Status: resp.StatusCode, Body: body}, nil
}
