package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/adapters/httpapi"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/serialization"
)

func sampleDoc() *serialization.Document {
	return &serialization.Document{
		Version: serialization.Version,
		Root:    "n0",
		Nodes: map[string]serialization.NodeRecord{
			"n0": {
				Kind:   "config",
				Target: "model",
				Params: []string{"head"},
				Args:   map[string]any{"head": map[string]any{"$ref": "n1"}},
			},
			"n1": {
				Kind:   "config",
				Target: "dense",
				Params: []string{"units"},
				Args:   map[string]any{"units": 8},
			},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	ts := httptest.NewServer(httpapi.NewHandler(store, logging.NewNop()))
	t.Cleanup(ts.Close)
	return ts, store
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHealthAndInfo(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)

	resp, body = get(t, ts.URL+"/info")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"app":"arbor-http"`)
}

func TestGraphLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	data, err := sampleDoc().MarshalJSON()
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/graphs/baseline", strings.NewReader(string(data)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := get(t, ts.URL+"/graphs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "baseline")

	resp, body = get(t, ts.URL+"/graphs/baseline")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"root": "n0"`)

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/graphs/baseline", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = get(t, ts.URL+"/graphs/baseline")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPutRejectsInvalidDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/graphs/bad", strings.NewReader(`{"version":"99"}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderedViews(t *testing.T) {
	ts, store := newTestServer(t)
	require.NoError(t, store.Save(context.Background(), "baseline", sampleDoc()))

	resp, body := get(t, ts.URL+"/graphs/baseline/flat")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<root>.head.units = 8")

	resp, body = get(t, ts.URL+"/graphs/baseline/mermaid")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "graph TD")
	assert.Contains(t, body, `-- "head" -->`)
}

func TestMetricsExposed(t *testing.T) {
	ts, _ := newTestServer(t)

	// Generate one request so the counter has a sample.
	_, _ = get(t, ts.URL+"/healthz")

	resp, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "arbor_http_requests_total")
	assert.Contains(t, body, `route="healthz"`)
}
