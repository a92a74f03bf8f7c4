package salesreport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/platform/httpx"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// Notice texts for report downloads.
const (
	MsgDownloadFailed = "Failed to download PDF"
	MsgExportQueued   = "Report export queued"
)

// ExportQueue schedules background report exports.
type ExportQueue interface {
	EnqueueReportExport(ctx context.Context, exportID string) error
}

// Handler exposes report downloads.
type Handler struct {
	logger   *slog.Logger
	exporter *Exporter
	store    *ExportStore
	queue    ExportQueue
	now      func() time.Time
}

// NewHandler builds Handler instance. store and queue may be nil, in which
// case asynchronous exports are not mounted.
func NewHandler(logger *slog.Logger, exporter *Exporter, store *ExportStore, queue ExportQueue) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, exporter: exporter, store: store, queue: queue, now: time.Now}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales.pdf", h.salesPDF)
	r.Get("/sales.xlsx", h.salesWorkbook)
	if h.store != nil && h.queue != nil {
		r.Post("/sales/exports", h.enqueueExport)
		r.Get("/sales/exports/{exportID}", h.showExport)
	}
}

type exportView struct {
	ID      string          `json:"id"`
	Status  ExportStatus    `json:"status"`
	Start   string          `json:"start_date"`
	End     string          `json:"end_date"`
	Notices []shared.Notice `json:"notices,omitempty"`
}

func (h *Handler) period(w http.ResponseWriter, r *http.Request) (Period, bool) {
	q := r.URL.Query()
	period, err := ParsePeriod(q.Get("start_date"), q.Get("end_date"), h.now())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return Period{}, false
	}
	return period, true
}

func (h *Handler) salesPDF(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	file, err := h.exporter.SalesReportPDF(r.Context(), period)
	if err != nil {
		h.fail(w, "sales report pdf", err)
		return
	}
	httpx.Attachment(w, file.Name, file.ContentType, file.Data)
}

func (h *Handler) salesWorkbook(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	file, err := h.exporter.SalesReportWorkbook(r.Context(), period)
	if err != nil {
		h.fail(w, "sales report workbook", err)
		return
	}
	httpx.Attachment(w, file.Name, file.ContentType, file.Data)
}

func (h *Handler) enqueueExport(w http.ResponseWriter, r *http.Request) {
	period, ok := h.period(w, r)
	if !ok {
		return
	}
	rec := ExportRecord{
		ID:     uuid.NewString(),
		Status: ExportPending,
		Start:  period.StartLabel(),
		End:    period.EndLabel(),
	}
	if err := h.store.Put(r.Context(), rec); err != nil {
		h.fail(w, "store export", err)
		return
	}
	if err := h.queue.EnqueueReportExport(r.Context(), rec.ID); err != nil {
		rec.Status = ExportFailed
		rec.Error = err.Error()
		_ = h.store.Put(r.Context(), rec)
		h.fail(w, "enqueue export", err)
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+rec.ID)
	httpx.JSON(w, http.StatusAccepted, exportView{
		ID:      rec.ID,
		Status:  rec.Status,
		Start:   rec.Start,
		End:     rec.End,
		Notices: []shared.Notice{shared.Success(MsgExportQueued)},
	})
}

func (h *Handler) showExport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(r.Context(), chi.URLParam(r, "exportID"))
	if err != nil {
		h.fail(w, "load export", err)
		return
	}
	view := exportView{ID: rec.ID, Status: rec.Status, Start: rec.Start, End: rec.End}
	switch rec.Status {
	case ExportReady:
		file := rec.File()
		httpx.Attachment(w, file.Name, file.ContentType, file.Data)
	case ExportFailed:
		view.Notices = []shared.Notice{shared.Failure(MsgDownloadFailed)}
		httpx.JSON(w, http.StatusBadGateway, view)
	default:
		httpx.JSON(w, http.StatusAccepted, view)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrExportNotFound), errors.Is(err, backend.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidPeriod):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, backend.ErrNetworkFailure), errors.Is(err, backend.ErrServerValidation):
		h.logger.Warn(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", MsgDownloadFailed)
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", MsgDownloadFailed)
	}
}
