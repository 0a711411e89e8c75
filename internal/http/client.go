// Package http provides the HTTP execution layer shared by every resource
// client: request construction, basic-auth injection, and the bounded
// retry/backoff engine for transient transport failures.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	nethttp "net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dashops-io/grafadmin/internal/constants"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// errRetryBudgetExhausted marks a transient transport failure that survived
// the whole retry budget. Do converts it into the connection-error fallback
// response instead of returning it to callers.
var errRetryBudgetExhausted = errors.New("retry budget exhausted")

// Request represents an HTTP request to the API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response represents an HTTP response from the API. Status is non-empty only
// for the retry engine's connection-error fallback; otherwise StatusCode
// carries the numeric result.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
	Status     grafadmin.Status
}

// Client is the HTTP client for the API. It is immutable after construction
// and safe for concurrent use.
type Client struct {
	baseURL           string
	username          string
	password          string
	userAgent         string
	logger            grafadmin.Logger
	debug             bool
	transport         nethttp.RoundTripper
	timeout           time.Duration
	retryMax          int
	backoffInitial    time.Duration
	backoffMax        time.Duration
	backoffMultiplier float64
	retryClient       *retryablehttp.Client
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger grafadmin.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithBasicAuth sets the credentials injected into every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout sets the per-attempt socket timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetryConfig sets the retry budget and the backoff schedule.
func WithRetryConfig(retryMax int, initial, maxDelay time.Duration, multiplier float64) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.backoffInitial = initial
		c.backoffMax = maxDelay
		c.backoffMultiplier = multiplier
	}
}

// WithTransport sets the underlying round tripper. Used by tests to inject
// transport failures.
func WithTransport(transport nethttp.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// NewClient creates a new HTTP client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:           strings.TrimSuffix(baseURL, "/"),
		logger:            grafadmin.NewNoopLogger(),
		timeout:           constants.DefaultHTTPTimeout,
		retryMax:          constants.DefaultRetryMax,
		backoffInitial:    constants.DefaultBackoffInitial,
		backoffMax:        constants.DefaultBackoffMax,
		backoffMultiplier: constants.DefaultBackoffMultiplier,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.retryClient = client.newRetryClient()

	return client
}

// retryTracker counts attempts within one logical call. Reset for every new
// request; never shared across calls.
type retryTracker struct {
	attempts int
}

type trackerKey struct{}

// newRetryClient wires go-retryablehttp with the client's retry policy: only
// transport timeouts and aborts retry, the backoff schedule is the truncated
// exponential triple, and an exhausted budget surfaces as
// errRetryBudgetExhausted.
func (c *Client) newRetryClient() *retryablehttp.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = c.retryMax
	retryClient.RetryWaitMin = c.backoffInitial
	retryClient.RetryWaitMax = c.backoffMax
	retryClient.HTTPClient = &nethttp.Client{Timeout: c.timeout}

	if c.transport != nil {
		retryClient.HTTPClient.Transport = c.transport
	}

	retryClient.RequestLogHook = func(_ retryablehttp.Logger, req *nethttp.Request, _ int) {
		if tracker, ok := req.Context().Value(trackerKey{}).(*retryTracker); ok {
			tracker.attempts++
		}
	}

	retryClient.Backoff = func(minDelay, maxDelay time.Duration, attemptNum int, _ *nethttp.Response) time.Duration {
		return Backoff(minDelay, maxDelay, c.backoffMultiplier, attemptNum)
	}

	retryClient.CheckRetry = func(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		// Statuses are business outcomes, never retried.
		if err == nil {
			return false, nil
		}

		reason, retryable := classifyTransportError(err)
		if !retryable {
			return false, err
		}

		if tracker, ok := ctx.Value(trackerKey{}).(*retryTracker); ok && tracker.attempts <= c.retryMax {
			c.logger.Warn("retrying request", map[string]interface{}{
				"reason":            reason,
				"retries_remaining": c.retryMax + 1 - tracker.attempts,
			})
		}

		return true, nil
	}

	retryClient.ErrorHandler = func(resp *nethttp.Response, err error, numTries int) (*nethttp.Response, error) {
		if resp != nil {
			_ = resp.Body.Close()
		}

		if _, retryable := classifyTransportError(err); retryable {
			return nil, fmt.Errorf("%w after %d attempts: %w", errRetryBudgetExhausted, numTries, err)
		}

		return nil, err
	}

	return retryClient
}

// classifyTransportError splits transport failures into the retryable classes
// (timeout, abort) and everything else. Only the retryable classes consume the
// retry budget; any other failure is a defect and propagates immediately.
func classifyTransportError(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout", true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return "abort", true
	}

	return "", false
}

// Backoff returns the delay before retry number attemptNum (0-based):
// min(initial * multiplier^attemptNum, maxDelay).
func Backoff(initial, maxDelay time.Duration, multiplier float64, attemptNum int) time.Duration {
	delay := time.Duration(float64(initial) * math.Pow(multiplier, float64(attemptNum)))
	if delay <= 0 || delay > maxDelay {
		return maxDelay
	}

	return delay
}

// Do executes an HTTP request under the retry policy and returns the raw
// response. Expected API rejections come back as status codes; an exhausted
// retry budget comes back as the connection-error fallback response. Only
// unrecognized transport failures return a Go error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    httpReq.URL.String(),
		})
	}

	resp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, errRetryBudgetExhausted) {
			return &Response{Status: grafadmin.StatusConnectionError}, nil
		}

		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"bytes":  len(body),
		})
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// buildRequest assembles the final request: base URL plus path suffix, query
// string, JSON body, headers, and credentials.
func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var rawBody interface{}

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		rawBody = data
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq = httpReq.WithContext(context.WithValue(httpReq.Context(), trackerKey{}, &retryTracker{}))

	httpReq.Header.Set("Accept", "application/json")

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	return httpReq, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}
