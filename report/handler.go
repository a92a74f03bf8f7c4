package report

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/salesdesk/internal/platform/httpx"
)

// Handler exposes PDF engine health.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates a report handler.
func NewHandler(engine Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Ping(r.Context()); err != nil {
		h.logger.Warn("pdf engine ping failed", slog.String("engine", h.engine.Name()), slog.Any("error", err))
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "engine": h.engine.Name()})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": h.engine.Name()})
}
