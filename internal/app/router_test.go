package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesdesk/internal/observability"
	"github.com/odyssey-erp/salesdesk/jobs"
)

func TestRouterHealthAndMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	router := NewRouter(RouterParams{
		Config:     &Config{AppEnv: "development"},
		JobHandler: jobs.NewHandler(nil, nil),
		Metrics:    metrics,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `salesdesk_http_requests_total{code="200",route="/healthz"} 1`))
}

func TestRouterSkipsUnconfiguredHandlers(t *testing.T) {
	router := NewRouter(RouterParams{Config: &Config{}})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/sales", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLoggerFormats(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(&Config{LogFormat: "json", AppEnv: "test", LogLevel: "warn"}, buf).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger(&Config{LogFormat: "json", AppEnv: "test", LogLevel: "warn"}, buf).Warn("shown")
	assert.Contains(t, buf.String(), `"service":"salesdesk"`)
	assert.Contains(t, buf.String(), `"env":"test"`)

	buf.Reset()
	newLogger(nil, buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
