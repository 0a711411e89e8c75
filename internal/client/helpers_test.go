package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/dashops-io/grafadmin/internal/client"
	internalhttp "github.com/dashops-io/grafadmin/internal/http"
	"github.com/dashops-io/grafadmin/pkg/grafadmin"
)

// newTestClient creates a client against the given base URL with a fast retry
// policy so degraded-path tests stay quick.
func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(&grafadmin.Config{
		APIEndpoint:       baseURL,
		RetryMax:          1,
		BackoffInitial:    time.Millisecond,
		BackoffMax:        2 * time.Millisecond,
		BackoffMultiplier: 2.0,
	})
	require.NoError(t, err)

	return client
}

func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	if body != nil {
		_ = json.NewEncoder(writer).Encode(body)
	}
}

// fakeGrafana is a minimal in-memory Grafana admin API for workflow tests. It
// serves org switching, dashboard search, and dashboard fetches, and counts
// hits per endpoint.
type fakeGrafana struct {
	t *testing.T

	switchStatus int
	searchHits   []map[string]interface{}
	dashboards   map[string]map[string]interface{}

	switchCalls int
	searchCalls int
	fetchCalls  int
}

func (f *fakeGrafana) handler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case strings.HasPrefix(request.URL.Path, "/api/user/using/"):
			f.switchCalls++
			writeJSON(f.t, writer, f.switchStatus, map[string]string{"message": "Active organization changed"})
		case request.URL.Path == "/api/search":
			f.searchCalls++
			writeJSON(f.t, writer, http.StatusOK, f.searchHits)
		case strings.HasPrefix(request.URL.Path, "/api/dashboards/uid/"):
			f.fetchCalls++

			uid := strings.TrimPrefix(request.URL.Path, "/api/dashboards/uid/")

			dashboard, ok := f.dashboards[uid]
			if !ok {
				writeJSON(f.t, writer, http.StatusNotFound, map[string]string{"message": "Dashboard not found"})

				return
			}

			writeJSON(f.t, writer, http.StatusOK, dashboard)
		default:
			writeJSON(f.t, writer, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	})
}

func (f *fakeGrafana) server() *httptest.Server {
	server := httptest.NewServer(f.handler())
	f.t.Cleanup(server.Close)

	return server
}

// dashboardBody builds the /api/dashboards/uid response shape: a dashboard
// with the given panels and a meta URL.
func dashboardBody(url string, panels ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"dashboard": map[string]interface{}{
			"panels": panels,
		},
		"meta": map[string]interface{}{
			"url": url,
		},
	}
}

// fastHTTPClient builds an internal HTTP client with a fast retry policy,
// optionally with a custom transport for failure injection.
func fastHTTPClient(baseURL string, opts ...internalhttp.Option) *internalhttp.Client {
	base := []internalhttp.Option{
		internalhttp.WithRetryConfig(0, time.Millisecond, 2*time.Millisecond, 2.0),
		internalhttp.WithTimeout(5 * time.Second),
	}

	return internalhttp.NewClient(baseURL, append(base, opts...)...)
}
