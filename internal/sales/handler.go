package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/salesdesk/internal/backend"
	"github.com/odyssey-erp/salesdesk/internal/catalog"
	"github.com/odyssey-erp/salesdesk/internal/platform/httpx"
	"github.com/odyssey-erp/salesdesk/internal/sales/composer"
	"github.com/odyssey-erp/salesdesk/internal/shared"
)

// InvoiceRenderer renders the invoice of a stored order.
type InvoiceRenderer interface {
	InvoicePDF(ctx context.Context, saleID int64) (shared.File, error)
}

// Handler manages sales endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	invoices InvoiceRenderer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, invoices InvoiceRenderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, invoices: invoices}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listOrders)
	r.Get("/{saleID}/invoice.pdf", h.downloadInvoice)

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.createDraft)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", h.showDraft)
			r.Patch("/", h.updateDraft)
			r.Delete("/", h.discardDraft)
			r.Post("/lines", h.addLine)
			r.Patch("/lines/{index}", h.updateLine)
			r.Delete("/lines/{index}", h.removeLine)
			r.Put("/lines/{index}/product", h.selectProduct)
			r.Post("/submit", h.submit)
		})
	})
}

// rawInput accepts a JSON string or number and keeps the raw text, so
// quantity and price parsing follows the composer's input rules.
type rawInput string

func (v *rawInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = rawInput(s)
		return nil
	}
	*v = rawInput(data)
	return nil
}

func (v *rawInput) str() *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

type updateDraftBody struct {
	CustomerName       *string   `json:"customer_name"`
	CustomerContact    *string   `json:"customer_contact"`
	DiscountPercentage *rawInput `json:"discount_percentage"`
}

type updateLineBody struct {
	Quantity  *rawInput `json:"quantity"`
	UnitPrice *rawInput `json:"unit_price"`
}

type selectProductBody struct {
	Product int64 `json:"product"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Orders(r.Context())
	if err != nil {
		h.logger.Error("list orders failed", "error", err)
		h.fail(w, err)
		return
	}
	if orders == nil {
		orders = []backend.SaleSummary{}
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.CreateDraft(r.Context())
	if err != nil {
		h.logger.Error("create draft failed", "error", err)
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) showDraft(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.Draft(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	var body updateDraftBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	stored, err := h.service.UpdateDraft(r.Context(), chi.URLParam(r, "draftID"), DraftUpdate{
		CustomerName:    body.CustomerName,
		CustomerContact: body.CustomerContact,
		Discount:        body.DiscountPercentage.str(),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardDraft(r.Context(), chi.URLParam(r, "draftID")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	stored, err := h.service.AddLine(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}
	var body updateLineBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	stored, err := h.service.UpdateLine(r.Context(), chi.URLParam(r, "draftID"), index, LineUpdate{
		Quantity:  body.Quantity.str(),
		UnitPrice: body.UnitPrice.str(),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}
	stored, removed, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "draftID"), index)
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := draftResponse{Draft: NewDraftView(stored)}
	if !removed {
		resp.Notices = []shared.Notice{shared.Failure("An order needs at least one line")}
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) selectProduct(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}
	var body selectProductBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	stored, err := h.service.SelectProduct(r.Context(), chi.URLParam(r, "draftID"), index, body.Product)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draftResponse{Draft: NewDraftView(stored)})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	draftID := chi.URLParam(r, "draftID")
	result, err := h.service.Submit(r.Context(), draftID)
	if err != nil {
		resp := submitResponse{Notices: result.Notices}
		if stored, loadErr := h.service.Draft(r.Context(), draftID); loadErr == nil {
			view := NewDraftView(stored)
			resp.Draft = &view
		}
		httpx.JSON(w, statusFor(err), resp)
		return
	}
	httpx.JSON(w, http.StatusCreated, submitResponse{
		Sale:    result.Sale,
		Orders:  result.Orders,
		Notices: result.Notices,
	})
}

func (h *Handler) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	saleID, err := strconv.ParseInt(chi.URLParam(r, "saleID"), 10, 64)
	if err != nil || saleID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sale id")
		return
	}
	file, err := h.invoices.InvoicePDF(r.Context(), saleID)
	if err != nil {
		h.logger.Error("render invoice failed", "error", err, "sale_id", saleID)
		h.fail(w, err)
		return
	}
	httpx.Attachment(w, file.Name, file.ContentType, file.Data)
}

func (h *Handler) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid line index")
		return 0, false
	}
	return index, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("sales request failed", "error", err)
		httpx.Problem(w, status, http.StatusText(status), "")
		return
	}
	httpx.Problem(w, status, http.StatusText(status), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrDraftNotFound),
		errors.Is(err, composer.ErrLineOutOfRange),
		errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSubmitInFlight),
		errors.Is(err, ErrDraftConflict):
		return http.StatusConflict
	case errors.Is(err, composer.ErrIncompleteOrder),
		errors.Is(err, composer.ErrMissingProductReference),
		errors.Is(err, composer.ErrInvalidOrder),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, backend.ErrServerValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, backend.ErrNetworkFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
