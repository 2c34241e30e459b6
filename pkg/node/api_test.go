package node

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postRank(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/rank", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestApiRank(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	e := NewApiServer(testRanker(NewMetrics(reg)), reg)

	rec := postRank(e, `{"pages": {"a.html": ["b.html", "c.html"], "b.html": ["c.html"], "c.html": []}, "seed": 3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Converged)
	assert.InDelta(t, 1.0, result.Sampling.Sum(), 1e-9)
	assert.InDelta(t, 1.0, result.Iteration.Sum(), 1e-3)
	assert.Greater(t, result.Iteration["c.html"], result.Iteration["a.html"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metrics := httptest.NewRecorder()
	e.ServeHTTP(metrics, req)
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `pagerank_runs_total{status="converged"} 1`)
}

func TestApiRankInvalid(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	e := NewApiServer(testRanker(NewMetrics(reg)), reg)

	for name, body := range map[string]string{
		"empty corpus":    `{"pages": {}}`,
		"invalid damping": `{"pages": {"a": []}, "damping": 2}`,
		"invalid samples": `{"pages": {"a": []}, "samples": 0}`,
		"malformed":       `{"pages": [`,
	} {
		rec := postRank(e, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestApiHealth(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	e := NewApiServer(testRanker(nil), reg)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
