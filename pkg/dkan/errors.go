package dkan

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a terminal failure at the transport boundary. A zero
// StatusCode means the request never produced an HTTP response (DNS failure,
// connection refused, cancellation); a non-zero StatusCode carries the HTTP
// status the server answered with.
type APIError struct {
	Message    string                 `json:"message"              yaml:"message"`
	StatusCode int                    `json:"status,omitempty"     yaml:"status,omitempty"`
	Response   string                 `json:"response,omitempty"   yaml:"response,omitempty"`
	Timestamp  string                 `json:"timestamp,omitempty"  yaml:"timestamp,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"       yaml:"data,omitempty"`

	cause error
}

// Unwrap exposes the underlying transport error, when there is one.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
	}

	return e.Message
}

// errorBody is the JSON shape DKAN uses for error responses.
type errorBody struct {
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NewAPIErrorFromResponse builds an APIError from a non-2xx response body.
// The body is parsed as JSON when possible; otherwise the raw text becomes the
// opaque Response detail and the message falls back to "HTTP <code>: <status>".
func NewAPIErrorFromResponse(statusCode int, statusText string, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Response:   string(body),
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
		apiErr.Timestamp = parsed.Timestamp
		apiErr.Data = parsed.Data
	} else {
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", statusCode, statusText)
	}

	return apiErr
}

// NewTransportError wraps a network-layer failure into an APIError with no
// status code.
func NewTransportError(err error) *APIError {
	message := "Unknown error occurred"
	if err != nil {
		message = err.Error()
	}

	return &APIError{Message: message, cause: err}
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 from the API.
func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	return HasStatus(err, http.StatusForbidden)
}

// IsTransport reports whether the error is an APIError with no status code,
// meaning the request never produced an HTTP response.
func IsTransport(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 0
	}

	return false
}

// HasStatus checks if the error is an APIError carrying the given HTTP status.
func HasStatus(err error, statusCode int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}

	return false
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrBaseURLRequired      = errors.New("base URL is required")
	ErrDatasetIDRequired    = errors.New("dataset identifier is required")
	ErrPlanIDRequired       = errors.New("harvest plan identifier is required")
	ErrQueryRequired        = errors.New("query string is required")
	ErrSelectClauseRequired = errors.New("SQL query requires a SELECT clause")
	ErrImportNotFound       = errors.New("import not found")
	ErrImportFailed         = errors.New("import failed")
	ErrCacheKeyNotFound     = errors.New("key not found")
	ErrCacheEntryExpired    = errors.New("entry expired")
	ErrCacheDisabled        = errors.New("cache disabled")
)
