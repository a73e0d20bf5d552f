// Package fetch provides the rate-limited HTTP client shared by every scraper.
//
// Each Client paces its own requests with a token bucket of burst 1, so calls
// through one client are strictly serial and at most RequestsPerSecond apart.
// Pacing is per instance, never global. The client does not retry; callers
// decide what a failed request means for their batch.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/nhl-ingest/internal/cache"
)

const defaultTimeout = 30 * time.Second

// Config describes one upstream host.
type Config struct {
	Name              string
	BaseURL           string
	RequestsPerSecond float64
	UserAgent         string
	Headers           map[string]string
	Timeout           time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Response is a fully read upstream response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Cached     bool
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// Client is a rate-limited HTTP client bound to one base URL.
type Client struct {
	httpClient *http.Client
	name       string
	baseURL    string
	headers    http.Header
	limiter    *rate.Limiter
	logger     *slog.Logger

	cache    *cache.Cache
	cacheTTL time.Duration
}

// New creates a client with its own limiter.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	headers := http.Header{}
	headers.Set("Accept", "*/*")
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	return &Client{
		httpClient: httpClient,
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger.With("source", cfg.Name),
	}
}

// WithCache lets identical GETs within a session be served from c.
func (c *Client) WithCache(cc *cache.Cache, ttl time.Duration) *Client {
	c.cache = cc
	c.cacheTTL = ttl
	return c
}

// Name returns the source name the client was configured with.
func (c *Client) Name() string { return c.name }

// Get performs a rate-limited GET. path is joined to the base URL unless it
// is already absolute, which lets one client reach a sibling host of the
// same source under the same pacing.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	u := c.resolve(path, params)

	if body, ok := c.cache.Get(u); ok {
		c.logger.Debug("cache hit", "url", u)
		return &Response{URL: u, StatusCode: http.StatusOK, Body: body, Cached: true}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers.Clone()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &HTTPError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.logger.Debug("fetched", "url", u, "status", resp.StatusCode,
		"bytes", len(body), "duration", time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{URL: u, StatusCode: resp.StatusCode, Body: truncate(body, 200)}
	}

	c.cache.Set(u, body, c.cacheTTL)

	return &Response{
		URL:        u,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// GetText performs a GET and returns the body as text.
func (c *Client) GetText(ctx context.Context, path string, params url.Values) (string, error) {
	resp, err := c.Get(ctx, path, params)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GetJSON performs a GET and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, v any) error {
	resp, err := c.Get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &DecodeError{URL: resp.URL, Format: "json", Err: err}
	}
	return nil
}

// Close releases idle connections. The client must not be used afterwards.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) resolve(path string, params url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u = c.baseURL + path
	}
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + params.Encode()
	}
	return u
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
