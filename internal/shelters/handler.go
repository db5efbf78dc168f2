package shelters

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shelterstock/shelterstock/internal/platform/httpx"
	"github.com/shelterstock/shelterstock/internal/rbac"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers shelter routes: reads for any session, writes for admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/abrigos", func(r chi.Router) {
		r.Use(h.rbac.Authenticate)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Group(func(r chi.Router) {
			r.Use(h.rbac.RequireAdmin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	shelters, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list shelters", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"abrigos": shelters})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	shelter, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get shelter", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"abrigo": shelter})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	shelter, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.fail(w, "create shelter", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"abrigo": shelter})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input Input
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	shelter, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.fail(w, "update shelter", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"abrigo": shelter})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete shelter", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Abrigo deletado com sucesso"})
}
