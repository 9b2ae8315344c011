package http_test

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	dkanhttp "github.com/dcgoodwin2112/dkan-client-go/internal/http"
	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

// dropConnection kills the TCP connection without writing a response, so the
// client sees a network-layer failure.
func dropConnection(writer nethttp.ResponseWriter) {
	hijacker, ok := writer.(nethttp.Hijacker)
	if !ok {
		panic("response writer does not support hijacking")
	}

	conn, _, err := hijacker.Hijack()
	if err != nil {
		panic(err)
	}

	_ = conn.Close()
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "/api/1/metastore/schemas/dataset/items/abc", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"identifier": "abc", "title": "Test Dataset"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.TokenCredential("test-token"))

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/metastore/schemas/dataset/items/abc",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "abc", result["identifier"])
		assert.Equal(t, "Test Dataset", result["title"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "/api/1/search", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/search",
			Query:  url.Values{"page": []string{"2"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with bare query flag", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "show-reference-ids", request.URL.RawQuery)
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/metastore/schemas/dataset/items/abc",
			Flags:  []string{"show-reference-ids"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Test Dataset", body["title"])

			writer.WriteHeader(nethttp.StatusCreated)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		req := &dkanhttp.Request{
			Method: "POST",
			Path:   "/api/1/metastore/schemas/dataset/items",
			Body:   map[string]string{"title": "Test Dataset"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			writer.WriteHeader(nethttp.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "Dataset not found"})
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/metastore/schemas/dataset/items/missing-id",
		}

		resp, err := client.Do(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		var apiErr *dkan.APIError

		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, "Dataset not found", apiErr.Message)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Empty(t, apiErr.Timestamp)
		assert.True(t, dkan.IsNotFound(err))
	})

	t.Run("error response with non-JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			writer.WriteHeader(nethttp.StatusBadGateway)
			_, _ = writer.Write([]byte("<html>Bad Gateway</html>"))
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		_, err := client.Get(context.Background(), "/api/1/search", nil)
		require.Error(t, err)

		var apiErr *dkan.APIError

		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, 502, apiErr.StatusCode)
		assert.Equal(t, "HTTP 502: Bad Gateway", apiErr.Message)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential())

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/search",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			writer.WriteHeader(nethttp.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithLogger(logger), dkanhttp.WithDebug(true))

		req := &dkanhttp.Request{
			Method: "GET",
			Path:   "/api/1/search",
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)

		// Should have logged request and response
		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

func TestClient_AuthHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		credential dkan.Credential
		wantHeader string
	}{
		{
			name:       "token sends bearer",
			credential: dkan.TokenCredential("secret-token"),
			wantHeader: "Bearer secret-token",
		},
		{
			name:       "basic sends base64 pair",
			credential: dkan.BasicCredential("admin", "password"),
			wantHeader: "Basic YWRtaW46cGFzc3dvcmQ=",
		},
		{
			name:       "no credential sends nothing",
			credential: dkan.NoCredential(),
			wantHeader: "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
				assert.Equal(t, testCase.wantHeader, request.Header.Get("Authorization"))
				writer.WriteHeader(nethttp.StatusOK)
			}))
			defer server.Close()

			client := dkanhttp.NewClient(server.URL, testCase.credential)

			resp, err := client.Get(context.Background(), "/api/1/search", nil)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*dkanhttp.Client, context.Context) (*dkanhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *dkanhttp.Client, ctx context.Context) (*dkanhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *dkanhttp.Client, ctx context.Context) (*dkanhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *dkanhttp.Client, ctx context.Context) (*dkanhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *dkanhttp.Client, ctx context.Context) (*dkanhttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *dkanhttp.Client, ctx context.Context) (*dkanhttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(nethttp.StatusOK)
			}))
			defer server.Close()

			client := dkanhttp.NewClient(server.URL, dkan.NoCredential())
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()
	t.Run("retries network failures until success", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			attempts++
			if attempts <= 2 {
				dropConnection(writer)

				return
			}

			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithRetryConfig(2, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("transport error after retry budget exhausted", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			attempts++
			dropConnection(writer)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithRetryConfig(2, 10*time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 3, attempts)

		var apiErr *dkan.APIError

		ok := errors.As(err, &apiErr)
		require.True(t, ok)
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.True(t, dkan.IsTransport(err))
	})

	t.Run("does not retry server errors", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			attempts++

			writer.WriteHeader(nethttp.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithRetryConfig(3, 10*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 503, resp.StatusCode)
		assert.Equal(t, 1, attempts)
	})

	t.Run("does not retry rate limiting", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			attempts++

			writer.WriteHeader(nethttp.StatusTooManyRequests)
		}))
		defer server.Close()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithRetryConfig(3, 10*time.Millisecond))

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context is not retried", func(t *testing.T) {
		t.Parallel()

		attempts := 0

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			attempts++
			dropConnection(writer)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := dkanhttp.NewClient(server.URL, dkan.NoCredential(),
			dkanhttp.WithRetryConfig(3, 10*time.Millisecond))

		_, err := client.Get(ctx, "/test", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.LessOrEqual(t, attempts, 1)
	})
}

func TestClient_BaseURLNormalization(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
		assert.Equal(t, "/api/1/metastore/schemas/dataset/items/abc", request.URL.Path)
		writer.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	// Trailing slash must not produce a double slash in the request path
	client := dkanhttp.NewClient(server.URL+"/", dkan.NoCredential())

	resp, err := client.Get(context.Background(), "/api/1/metastore/schemas/dataset/items/abc", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
