package salesreport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/document"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// Content types of exported files.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Source is the subset of the backend client the exporter reads from.
type Source interface {
	SalesReport(ctx context.Context, rng backend.ReportRange) (*backend.ReportPayload, error)
	GetSale(ctx context.Context, id int64) (*backend.Sale, error)
}

// PDFRenderer turns a laid out document into PDF bytes.
type PDFRenderer interface {
	PDF(ctx context.Context, title string, doc *document.Document) ([]byte, error)
}

// Observer records document metrics.
type Observer interface {
	ObserveDocument(kind string, pages int, elapsed time.Duration)
}

// Auditor records completed exports.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Exporter fetches report data and renders downloadable files.
type Exporter struct {
	source   Source
	builder  *Builder
	renderer PDFRenderer
	audit    Auditor
	observer Observer
	logger   *slog.Logger
}

// ExporterOption customises an Exporter.
type ExporterOption func(*Exporter)

// WithAuditor records every produced file in the audit trail.
func WithAuditor(a Auditor) ExporterOption {
	return func(e *Exporter) { e.audit = a }
}

// WithObserver reports page counts and render durations.
func WithObserver(o Observer) ExporterOption {
	return func(e *Exporter) { e.observer = o }
}

// NewExporter wires the exporter.
func NewExporter(source Source, builder *Builder, renderer PDFRenderer, logger *slog.Logger, opts ...ExporterOption) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{source: source, builder: builder, renderer: renderer, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SalesReportPDF renders the period report as PDF.
func (e *Exporter) SalesReportPDF(ctx context.Context, period Period) (shared.File, error) {
	payload, err := e.source.SalesReport(ctx, period.Range())
	if err != nil {
		return shared.File{}, err
	}
	start := time.Now()
	doc := e.builder.Report(payload, period)
	pdf, err := e.renderer.PDF(ctx, ReportTitle, doc)
	if err != nil {
		return shared.File{}, fmt.Errorf("render sales report: %w", err)
	}
	e.observe("sales_report", doc.PageCount(), start)
	file := shared.File{Name: ReportFileName(period, "pdf"), ContentType: ContentTypePDF, Data: pdf}
	e.record(ctx, "report.exported", "sales_report", period.StartLabel()+"_"+period.EndLabel(), file)
	return file, nil
}

// SalesReportWorkbook renders the period report as xlsx.
func (e *Exporter) SalesReportWorkbook(ctx context.Context, period Period) (shared.File, error) {
	payload, err := e.source.SalesReport(ctx, period.Range())
	if err != nil {
		return shared.File{}, err
	}
	data, err := e.builder.Workbook(payload, period)
	if err != nil {
		return shared.File{}, err
	}
	file := shared.File{Name: ReportFileName(period, "xlsx"), ContentType: ContentTypeXLSX, Data: data}
	e.record(ctx, "report.exported", "sales_report", period.StartLabel()+"_"+period.EndLabel(), file)
	return file, nil
}

// InvoicePDF renders the invoice of one order.
func (e *Exporter) InvoicePDF(ctx context.Context, saleID int64) (shared.File, error) {
	sale, err := e.source.GetSale(ctx, saleID)
	if err != nil {
		return shared.File{}, err
	}
	start := time.Now()
	doc := e.builder.Invoice(sale)
	pdf, err := e.renderer.PDF(ctx, "Invoice "+sale.InvoiceNumber, doc)
	if err != nil {
		return shared.File{}, fmt.Errorf("render invoice %d: %w", saleID, err)
	}
	e.observe("invoice", doc.PageCount(), start)
	day := e.builder.now().In(e.builder.loc).Format(dateLayout)
	file := shared.File{Name: InvoiceFileName(sale.InvoiceNumber, day), ContentType: ContentTypePDF, Data: pdf}
	e.record(ctx, "invoice.exported", "sale", fmt.Sprintf("%d", sale.ID), file)
	return file, nil
}

func (e *Exporter) observe(kind string, pages int, start time.Time) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveDocument(kind, pages, time.Since(start))
}

func (e *Exporter) record(ctx context.Context, action, entity, entityID string, file shared.File) {
	if e.audit == nil {
		return
	}
	err := e.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Meta:     map[string]any{"file": file.Name, "bytes": len(file.Data)},
	})
	if err != nil {
		e.logger.Warn("audit export", slog.String("file", file.Name), slog.Any("error", err))
	}
}

// RunExport renders a queued export and stores the outcome.
func (e *Exporter) RunExport(ctx context.Context, store *ExportStore, id string) error {
	rec, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	period, err := ParsePeriod(rec.Start, rec.End, time.Now())
	if err != nil {
		return e.failExport(ctx, store, rec, err)
	}
	file, err := e.SalesReportPDF(ctx, period)
	if err != nil {
		return e.failExport(ctx, store, rec, err)
	}
	rec.Status = ExportReady
	rec.FileName = file.Name
	rec.ContentType = file.ContentType
	rec.Data = file.Data
	rec.Error = ""
	if err := store.Put(ctx, rec); err != nil {
		return err
	}
	e.logger.Info("report export ready", slog.String("export_id", id), slog.Int("bytes", len(file.Data)))
	return nil
}

func (e *Exporter) failExport(ctx context.Context, store *ExportStore, rec ExportRecord, cause error) error {
	rec.Status = ExportFailed
	rec.Error = cause.Error()
	if err := store.Put(ctx, rec); err != nil {
		e.logger.Error("store failed export", slog.String("export_id", rec.ID), slog.Any("error", err))
	}
	return cause
}
