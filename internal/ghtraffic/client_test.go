package ghtraffic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewsBody = `{"count":44,"uniques":10,"views":[{"timestamp":"2024-01-01T00:00:00Z","count":44,"uniques":10}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("UNUSED", WithBaseURL(srv.URL), WithToken("test-token"))
	require.NoError(t, err)
	return client
}

func TestFetchViewsReturnsBodyVerbatim(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(viewsBody))
	})

	body, err := client.FetchViews(context.Background(), "acme", "widget")
	require.NoError(t, err)

	// The store appends exactly what the API produced.
	assert.Equal(t, viewsBody, string(body))
	assert.Equal(t, "/repos/acme/widget/traffic/views", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestFetchViewsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Resource not accessible"}`))
	})

	_, err := client.FetchViews(context.Background(), "acme", "widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "Resource not accessible")
	assert.Contains(t, err.Error(), "acme/widget")
}

func TestFetchViewsMissingViewsList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 3}`))
	})

	_, err := client.FetchViews(context.Background(), "acme", "widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "views")
}

func TestFetchViewsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>proxy error</html>`))
	})

	_, err := client.FetchViews(context.Background(), "acme", "widget")
	require.Error(t, err)
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("TRAFFICLOG_TEST_TOKEN", "")
	_, err := NewClient("TRAFFICLOG_TEST_TOKEN")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRAFFICLOG_TEST_TOKEN")
}

func TestNewClientReadsTokenFromEnv(t *testing.T) {
	t.Setenv("TRAFFICLOG_TEST_TOKEN", "from-env")
	client, err := NewClient("TRAFFICLOG_TEST_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "from-env", client.token)
}
