package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// recordingLogger captures structured events for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	events []loggedEvent
}

type loggedEvent struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, loggedEvent{level: level, msg: msg, fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *recordingLogger) retryEvents() []loggedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	var events []loggedEvent

	for _, event := range l.events {
		if event.level == "warn" && event.msg == "retrying request" {
			events = append(events, event)
		}
	}

	return events
}

// timeoutError implements net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

// flakyTransport fails the first `failures` attempts with err, then answers
// 200 with a small JSON body.
type flakyTransport struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    int
}

func (t *flakyTransport) RoundTrip(*nethttp.Request) (*nethttp.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.calls <= t.failures {
		return nil, t.err
	}

	return &nethttp.Response{
		StatusCode: nethttp.StatusOK,
		Header:     make(nethttp.Header),
		Body:       io.NopCloser(strings.NewReader(`{"message":"ok"}`)),
	}, nil
}

func (t *flakyTransport) callCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.calls
}

func fastRetryConfig(retryMax int) internalhttp.Option {
	return internalhttp.WithRetryConfig(retryMax, time.Millisecond, 2*time.Millisecond, 2.0)
}

func TestClient_RetriesTimeoutsThenSucceeds(t *testing.T) {
	t.Parallel()

	transport := &flakyTransport{failures: 2, err: timeoutError{}}
	logger := &recordingLogger{}
	client := internalhttp.NewClient("http://grafana.test",
		internalhttp.WithTransport(transport),
		internalhttp.WithLogger(logger),
		fastRetryConfig(3),
	)

	resp, err := client.Get(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Status)
	assert.Equal(t, 3, transport.callCount())

	events := logger.retryEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "timeout", events[0].fields["reason"])
	assert.Equal(t, 3, events[0].fields["retries_remaining"])
	assert.Equal(t, 2, events[1].fields["retries_remaining"])
}

func TestClient_ExhaustedBudgetFallsBackToConnectionError(t *testing.T) {
	t.Parallel()

	transport := &flakyTransport{failures: 100, err: timeoutError{}}
	logger := &recordingLogger{}
	client := internalhttp.NewClient("http://grafana.test",
		internalhttp.WithTransport(transport),
		internalhttp.WithLogger(logger),
		fastRetryConfig(3),
	)

	resp, err := client.Get(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, grafadmin.StatusConnectionError, resp.Status)
	assert.Zero(t, resp.StatusCode)
	assert.Equal(t, 4, transport.callCount())

	events := logger.retryEvents()
	require.Len(t, events, 3)
	assert.Equal(t, 3, events[0].fields["retries_remaining"])
	assert.Equal(t, 2, events[1].fields["retries_remaining"])
	assert.Equal(t, 1, events[2].fields["retries_remaining"])
}

func TestClient_RetriesConnectionAborts(t *testing.T) {
	t.Parallel()

	transport := &flakyTransport{failures: 1, err: syscall.ECONNRESET}
	logger := &recordingLogger{}
	client := internalhttp.NewClient("http://grafana.test",
		internalhttp.WithTransport(transport),
		internalhttp.WithLogger(logger),
		fastRetryConfig(3),
	)

	resp, err := client.Get(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	events := logger.retryEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "abort", events[0].fields["reason"])
}

func TestClient_FatalTransportErrorPropagates(t *testing.T) {
	t.Parallel()

	transport := &flakyTransport{failures: 100, err: errors.New("tls handshake failure")}
	logger := &recordingLogger{}
	client := internalhttp.NewClient("http://grafana.test",
		internalhttp.WithTransport(transport),
		internalhttp.WithLogger(logger),
		fastRetryConfig(3),
	)

	resp, err := client.Get(context.Background(), "/api/health", nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 1, transport.callCount())
	assert.Empty(t, logger.retryEvents())
}

func TestClient_StatusCodesAreNeverRetried(t *testing.T) {
	t.Parallel()

	attempts := 0

	server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, _ *nethttp.Request) {
		attempts++
		writer.WriteHeader(nethttp.StatusInternalServerError)
	}))
	defer server.Close()

	client := internalhttp.NewClient(server.URL, fastRetryConfig(3))

	resp, err := client.Get(context.Background(), "/api/health", nil)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestBackoff_Schedule(t *testing.T) {
	t.Parallel()

	// Delay before retry n is min(initial * multiplier^(n-1), max).
	expected := []time.Duration{
		500 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
	}

	for n := 1; n <= 5; n++ {
		delay := internalhttp.Backoff(500*time.Millisecond, 1000*time.Millisecond, 2.0, n-1)
		assert.Equal(t, expected[n-1], delay, "retry %d", n)
	}
}

func TestBackoff_CustomTriple(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100*time.Millisecond, internalhttp.Backoff(100*time.Millisecond, time.Second, 3.0, 0))
	assert.Equal(t, 300*time.Millisecond, internalhttp.Backoff(100*time.Millisecond, time.Second, 3.0, 1))
	assert.Equal(t, 900*time.Millisecond, internalhttp.Backoff(100*time.Millisecond, time.Second, 3.0, 2))
	assert.Equal(t, time.Second, internalhttp.Backoff(100*time.Millisecond, time.Second, 3.0, 3))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "/api/orgs", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			username, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "admin", username)
			assert.Equal(t, "secret", password)

			_ = json.NewEncoder(writer).Encode([]map[string]interface{}{{"id": 1, "name": "Main Org."}})
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, internalhttp.WithBasicAuth("admin", "secret"))

		resp, err := client.Do(context.Background(), &internalhttp.Request{
			Method: "GET",
			Path:   "/api/orgs",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var orgs []map[string]interface{}

		require.NoError(t, json.Unmarshal(resp.Body, &orgs))
		assert.Len(t, orgs, 1)
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "loginOrEmail=admin%40example.com", request.URL.RawQuery)
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Do(context.Background(), &internalhttp.Request{
			Method: "GET",
			Path:   "/api/users/lookup",
			Query:  url.Values{"loginOrEmail": []string{"admin@example.com"}},
		})
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
			assert.Equal(t, "Acme", body["name"])

			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Post(context.Background(), "/api/orgs", map[string]string{"name": "Acme"})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("empty response body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, _ *nethttp.Request) {
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL)

		resp, err := client.Delete(context.Background(), "/api/orgs/2")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Empty(t, resp.Body)
	})

	t.Run("custom headers and user agent", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "grafadmin-test/1.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(nethttp.StatusOK)
		}))
		defer server.Close()

		client := internalhttp.NewClient(server.URL, internalhttp.WithUserAgent("grafadmin-test/1.0"))

		resp, err := client.Do(context.Background(), &internalhttp.Request{
			Method:  "GET",
			Path:    "/api/health",
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, _ *nethttp.Request) {
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "ok"})
		}))
		defer server.Close()

		logger := &recordingLogger{}
		client := internalhttp.NewClient(server.URL, internalhttp.WithLogger(logger), internalhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/api/health", nil)
		require.NoError(t, err)

		logger.mu.Lock()
		defer logger.mu.Unlock()
		require.Len(t, logger.events, 2)
		assert.Equal(t, "HTTP Request", logger.events[0].msg)
		assert.Equal(t, "HTTP Response", logger.events[1].msg)
	})
}

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*internalhttp.Client, context.Context) (*internalhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *internalhttp.Client, ctx context.Context) (*internalhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *internalhttp.Client, ctx context.Context) (*internalhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *internalhttp.Client, ctx context.Context) (*internalhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *internalhttp.Client, ctx context.Context) (*internalhttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(nethttp.HandlerFunc(func(writer nethttp.ResponseWriter, request *nethttp.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(nethttp.StatusOK)
			}))
			defer server.Close()

			client := internalhttp.NewClient(server.URL)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}
