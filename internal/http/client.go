// Package http issues single GET requests against the API and captures the
// status, body and time of each response.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fivetwenty-io/opencorp/internal/constants"
	"github.com/fivetwenty-io/opencorp/pkg/opencorp"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs GET requests. It never converts an HTTP status into an
// error: only network failures are returned as *opencorp.TransportError.
type Client struct {
	httpClient   *retryablehttp.Client
	userAgent    string
	logger       Logger
	debug        bool
	interceptors *opencorp.InterceptorChain
	now          func() time.Time
}

// Option configures the HTTP client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient.HTTPClient = httpClient
		}
	}
}

// WithInterceptors runs the chain around every request.
func WithInterceptors(chain *opencorp.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithRetryConfig opts into retries of 5xx, 429 and connection errors.
// Without it the client sends each request exactly once.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// withClock overrides the response timestamp source.
func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new HTTP client.
func NewClient(opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = statusAsDataPolicy
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get issues one GET against a fully-built URL.
func (c *Client) Get(ctx context.Context, requestURL string) (*opencorp.Response, error) {
	outbound := &opencorp.OutboundRequest{
		Method:  http.MethodGet,
		URL:     requestURL,
		Headers: make(http.Header),
	}

	requestID := uuid.NewString()
	outbound.Headers.Set(constants.RequestIDHeader, requestID)
	outbound.Headers.Set("Accept", "application/json")
	outbound.Headers.Set("User-Agent", c.userAgent)

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, outbound)
		if err != nil {
			return nil, err
		}
	}

	resp, err := c.do(ctx, outbound, requestID)

	if c.interceptors != nil {
		interceptErr := c.interceptors.ExecuteResponseInterceptors(ctx, outbound, resp, err)
		if interceptErr != nil && err == nil {
			return resp, interceptErr
		}
	}

	return resp, err
}

func (c *Client) do(ctx context.Context, outbound *opencorp.OutboundRequest, requestID string) (*opencorp.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, outbound.Method, outbound.URL, nil)
	if err != nil {
		return nil, &opencorp.TransportError{URL: outbound.URL, Err: fmt.Errorf("creating request: %w", err)}
	}

	for key, values := range outbound.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     outbound.Method,
			"url":        opencorp.RedactURL(outbound.URL),
			"request_id": requestID,
		})
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &opencorp.TransportError{URL: outbound.URL, Err: err}
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &opencorp.TransportError{URL: outbound.URL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	resp := &opencorp.Response{
		URL:         outbound.URL,
		StatusCode:  httpResp.StatusCode,
		Body:        body,
		RequestedAt: c.now().UTC(),
		RequestID:   requestID,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         opencorp.RedactURL(outbound.URL),
			"request_id":  requestID,
			"bytes":       len(body),
		})
	}

	return resp, nil
}

// statusAsDataPolicy keeps the default retry decision but never turns a
// received response into an error.
func statusAsDataPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	shouldRetry, checkErr := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	if err == nil && resp != nil {
		return shouldRetry, nil
	}

	return shouldRetry, checkErr
}

// leveledLogger adapts Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}

		if key == "url" {
			fields[key] = opencorp.RedactURL(fmt.Sprint(keysAndValues[i+1]))

			continue
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
