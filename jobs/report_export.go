package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/salesdesk/internal/jobs"
	"github.com/odyssey-erp/salesdesk/internal/salesreport"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportExportJob renders queued sales report exports.
type ReportExportJob struct {
	Exporter *salesreport.Exporter
	Store    *salesreport.ExportStore
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewReportExportJob wires dependencies for the export handler.
func NewReportExportJob(exporter *salesreport.Exporter, store *salesreport.ExportStore, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportExportJob {
	return &ReportExportJob{Exporter: exporter, Store: store, Logger: logger, Metrics: metrics}
}

// Handle processes TaskReportExport tasks. A failed render is stored on the
// export record and is not retried.
func (j *ReportExportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Exporter == nil || j.Store == nil {
		return errors.New("report export: handler not configured")
	}
	var payload ReportExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.ExportID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportExport)
	logger := j.logger().With(slog.String("export_id", payload.ExportID))

	err := j.Exporter.RunExport(ctx, j.Store, payload.ExportID)
	if err != nil {
		logger.Error("report export failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, tracker.End(err))
	}
	if rec, err := j.Store.Get(ctx, payload.ExportID); err == nil {
		j.metrics().ObserveExport("sales_report", len(rec.Data))
	}
	return tracker.End(nil)
}

func (j *ReportExportJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportExport))
	}
	return slog.Default().With(slog.String("job", TaskReportExport))
}

func (j *ReportExportJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
