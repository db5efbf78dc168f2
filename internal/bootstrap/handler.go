package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelterstock/shelterstock/internal/platform/httpx"
)

// Handler exposes the bootstrap endpoint.
type Handler struct {
	logger      *slog.Logger
	coordinator *Coordinator
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, coordinator *Coordinator) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, coordinator: coordinator}
}

// MountRoutes registers the bootstrap route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/primeiro-admin", h.createFirstAdmin)
}

func (h *Handler) createFirstAdmin(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := h.coordinator.CreateFirstAdmin(r.Context(), req.AccountInput, req.Shelter)
	if err != nil {
		if httpx.StatusFor(err) >= http.StatusInternalServerError {
			h.logger.Error("create first admin", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, response{ID: id})
}
