package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportExport renders a sales report PDF into the export store.
	TaskReportExport = "report:sales_export"
)

// ReportExportPayload identifies the export record to render.
type ReportExportPayload struct {
	ExportID string `json:"export_id"`
}

// NewReportExportTask constructs an Asynq task.
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, data), nil
}
