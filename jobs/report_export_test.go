package jobs

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/document"
	jobmetrics "github.com/odyssey-erp/salesdesk/internal/jobs"
	"github.com/odyssey-erp/salesdesk/internal/money"
	"github.com/odyssey-erp/salesdesk/internal/salesreport"
)

type stubSource struct {
	err error
}

func (s stubSource) SalesReport(ctx context.Context, rng backend.ReportRange) (*backend.ReportPayload, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &backend.ReportPayload{}, nil
}

func (s stubSource) GetSale(ctx context.Context, id int64) (*backend.Sale, error) {
	return nil, backend.ErrNotFound
}

type stubPDF struct{}

func (stubPDF) PDF(ctx context.Context, title string, doc *document.Document) ([]byte, error) {
	return []byte("%PDF-1.7 report"), nil
}

func newExportJob(t *testing.T, source stubSource) (*ReportExportJob, *salesreport.ExportStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := salesreport.NewExportStore(client, 0)
	builder := salesreport.NewBuilder(money.NewFormatter(money.DefaultLocale, money.DefaultSymbol), salesreport.DefaultBranding(), nil)
	exporter := salesreport.NewExporter(source, builder, stubPDF{}, nil)
	job := NewReportExportJob(exporter, store, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	return job, store
}

func exportTask(t *testing.T, id string) *asynq.Task {
	t.Helper()
	task, err := NewReportExportTask(ReportExportPayload{ExportID: id})
	require.NoError(t, err)
	return task
}

func TestReportExportJobStoresPDF(t *testing.T) {
	job, store := newExportJob(t, stubSource{})
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, salesreport.ExportRecord{ID: "e1", Status: salesreport.ExportPending, Start: "2025-01-01", End: "2025-01-31"}))

	require.NoError(t, job.Handle(ctx, exportTask(t, "e1")))

	rec, err := store.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, salesreport.ExportReady, rec.Status)
	assert.Equal(t, "Comprehensive_Sales_Report_2025-01-01_to_2025-01-31.pdf", rec.FileName)
	assert.Equal(t, "%PDF-1.7 report", string(rec.Data))
}

func TestReportExportJobFailureIsNotRetried(t *testing.T) {
	job, store := newExportJob(t, stubSource{err: backend.ErrNetworkFailure})
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, salesreport.ExportRecord{ID: "e2", Status: salesreport.ExportPending, Start: "2025-01-01", End: "2025-01-31"}))

	err := job.Handle(ctx, exportTask(t, "e2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	rec, err := store.Get(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, salesreport.ExportFailed, rec.Status)
	assert.NotEmpty(t, rec.Error)
}

func TestReportExportJobRejectsBadPayload(t *testing.T) {
	job, _ := newExportJob(t, stubSource{})
	err := job.Handle(context.Background(), asynq.NewTask(TaskReportExport, []byte(`{}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskReportExport, []byte(`not json`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReportExportJobUnknownExport(t *testing.T) {
	job, _ := newExportJob(t, stubSource{})
	err := job.Handle(context.Background(), exportTask(t, "missing"))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
