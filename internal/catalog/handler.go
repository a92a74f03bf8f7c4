package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/salesdesk/internal/platform/httpx"
)

// Handler exposes the product picker endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/refresh", h.refresh)
}

type productOption struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Category string `json:"category,omitempty"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, httpx.Mark(err, httpx.ErrUpstream))
		return
	}
	options := make([]productOption, 0, len(products))
	for _, p := range products {
		options = append(options, productOption{
			ID:       p.ID,
			Code:     p.Code,
			Name:     p.Name,
			Price:    p.CatalogPrice().StringFixed(2),
			Quantity: p.Quantity,
			Category: p.CategoryName,
		})
	}
	httpx.JSON(w, http.StatusOK, options)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("refresh catalog", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
