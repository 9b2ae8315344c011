// Package http implements the DKAN transport layer: request assembly,
// authentication headers, retry on network failure, and translation of error
// responses into dkan.APIError.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
)

const defaultUserAgent = "dkan-client-go/1.0"

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Flags   []string // bare query flags appended without a value
	Headers map[string]string
	Body    interface{}
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Status     string
	Headers    nethttp.Header
	Body       []byte
}

// Client executes requests against a DKAN site.
type Client struct {
	baseURL    string
	credential dkan.Credential
	httpClient *retryablehttp.Client
	userAgent  string
	logger     Logger
	debug      bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a logger for the client.
func WithLogger(logger Logger) Option {
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

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry budget for network-layer failures and the
// base backoff wait.
func WithRetryConfig(retryMax int, retryWait time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = retryWait
		c.httpClient.RetryWaitMax = retryWait * time.Duration(retryMax+1)
	}
}

// WithHTTPClient swaps the underlying standard client, for transports that
// need custom TLS or proxies.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a transport for the given base URL. The base URL must not
// end with a trailing slash; dkanclient.New normalizes it.
func NewClient(baseURL string, credential dkan.Credential, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = dkan.DefaultRetryMax
	retryClient.RetryWaitMin = dkan.DefaultRetryWait
	retryClient.RetryWaitMax = dkan.DefaultRetryWait
	retryClient.CheckRetry = checkRetry
	retryClient.Backoff = linearBackoff

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		credential: credential,
		httpClient: retryClient,
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// checkRetry draws the retry boundary at "did we get an HTTP response at
// all". Once the server answers, even with an error status, the response is
// authoritative and the request is never replayed. Cancelled contexts abort
// without retrying.
func checkRetry(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil
	}

	return false, nil
}

// linearBackoff waits retryWait × attempt: the first retry waits the base
// interval, the second twice that, and so on.
func linearBackoff(minWait, maxWait time.Duration, attemptNum int, _ *nethttp.Response) time.Duration {
	wait := minWait * time.Duration(attemptNum+1)
	if maxWait > 0 && wait > maxWait {
		wait = maxWait
	}

	return wait
}

// Do executes a request and returns the response. Non-2xx responses and
// network failures both surface as *dkan.APIError; the former carry the HTTP
// status, the latter do not.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req)

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(httpReq, req.Headers)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, dkan.NewTransportError(err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, dkan.NewTransportError(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": resp.StatusCode,
		})
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return resp, dkan.NewAPIErrorFromResponse(httpResp.StatusCode, statusText(httpResp), respBody)
	}

	return resp, nil
}

// buildURL concatenates base URL, path, encoded query, and bare flags.
func (c *Client) buildURL(req *Request) string {
	var builder strings.Builder

	builder.WriteString(c.baseURL)
	builder.WriteString(req.Path)

	rawQuery := req.Query.Encode()

	for _, flag := range req.Flags {
		if rawQuery != "" {
			rawQuery += "&"
		}

		rawQuery += url.QueryEscape(flag)
	}

	if rawQuery != "" {
		builder.WriteString("?")
		builder.WriteString(rawQuery)
	}

	return builder.String()
}

// setHeaders applies default, caller, and auth headers, in that order: the
// computed Authorization header always wins over a caller-supplied one.
func (c *Client) setHeaders(httpReq *retryablehttp.Request, headers map[string]string) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	if token, ok := c.credential.Token(); ok {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	} else if username, password, ok := c.credential.Basic(); ok {
		httpReq.SetBasicAuth(username, password)
	}
}

// statusText extracts the reason phrase from a response status line.
func statusText(resp *nethttp.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "

	return strings.TrimPrefix(resp.Status, prefix)
}

func encodeBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// GetWithFlags performs a GET request with bare query flags.
func (c *Client) GetWithFlags(ctx context.Context, path string, query url.Values, flags []string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query, Flags: flags})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}
