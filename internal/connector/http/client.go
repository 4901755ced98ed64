package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig configures the HTTP client behavior.
type ClientConfig struct {
	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// RateLimit requests per second (default: 0, unlimited). Calls made
	// through one Client share the limiter once it is enabled.
	RateLimit float64

	// RateBurst maximum burst size (default: 5).
	RateBurst int

	// Headers to add to all requests.
	Headers map[string]string

	// UserAgent string (default: "HttpFS-Client/1.0").
	UserAgent string

	// Transport allows injecting a custom HTTP transport (for tests/stubs).
	Transport http.RoundTripper
}

// Defaults applied by DefaultClientConfig and NewClient.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 0.0
	DefaultRateBurst = 5
	DefaultUserAgent = "HttpFS-Client/1.0"
)

// maxGetRedirects bounds transport-level redirect following for reads.
const maxGetRedirects = 10

// DefaultClientConfig returns a client config with sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
		UserAgent: DefaultUserAgent,
		Headers:   make(map[string]string),
	}
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// Client is an HTTP client that performs exactly one exchange per call,
// optionally behind a rate limiter.
type Client struct {
	config      *ClientConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter // nil when RateLimit <= 0
}

// NewClient creates a new HTTP client with the given configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.RateBurst <= 0 {
		config.RateBurst = DefaultRateBurst
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}

	transport := config.Transport
	if transport == nil {
		// Each call owns its connection; nothing is pooled between calls.
		transport = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		}
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:       config.Timeout,
			Transport:     transport,
			CheckRedirect: checkRedirect,
		},
		rateLimiter: limiter,
	}
}

// checkRedirect follows redirects for reads only. Writes and deletes get the
// redirect response back so the caller decides what to do with it.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return http.ErrUseLastResponse
	}
	if len(via) >= maxGetRedirects {
		return fmt.Errorf("stopped after %d redirects", maxGetRedirects)
	}
	return nil
}

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// Request represents an HTTP request to be made.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response wraps an HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Location returns the Location header and whether it was present.
func (r *Response) Location() (string, bool) {
	if r.Headers == nil {
		return "", false
	}
	values, ok := r.Headers["Location"]
	if !ok || len(values) == 0 || values[0] == "" {
		return "", false
	}
	return values[0], true
}

// Err returns an *HTTPError for 4xx/5xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.StatusCode < 400 {
		return nil
	}
	return &HTTPError{
		StatusCode: r.StatusCode,
		Message:    string(r.Body),
	}
}

// =============================================================================
// CLIENT METHODS
// =============================================================================

// Do executes a single request. Only failures to obtain a response are
// returned as errors; every HTTP status, including 4xx and 5xx, comes back
// as a Response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}
