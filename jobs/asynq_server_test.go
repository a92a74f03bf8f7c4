package jobs

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func serveHealth(t *testing.T, inspector QueueInspector) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(inspector, nil).MountRoutes(router)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rr
}

func TestHealthReportsQueueDepth(t *testing.T) {
	rr := serveHealth(t, stubInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 3, Active: 1}})
	require.Equal(t, http.StatusOK, rr.Code)

	var body queueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, QueueDefault, body.Queue)
	assert.Equal(t, 3, body.Pending)
	assert.Equal(t, 1, body.Active)
}

func TestHealthWithoutInspector(t *testing.T) {
	rr := serveHealth(t, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"pending":0`)
}

func TestHealthInspectorError(t *testing.T) {
	rr := serveHealth(t, stubInspector{err: errors.New("redis down")})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestNewReportExportTaskPayload(t *testing.T) {
	task, err := NewReportExportTask(ReportExportPayload{ExportID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, TaskReportExport, task.Type())
	assert.JSONEq(t, `{"export_id":"abc"}`, string(task.Payload()))
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{})
	assert.Error(t, err)
}
