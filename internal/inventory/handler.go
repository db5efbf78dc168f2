package inventory

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelterstock/shelterstock/internal/platform/httpx"
	"github.com/shelterstock/shelterstock/internal/rbac"
)

// IdempotencyHeader optionally deduplicates donation submissions.
const IdempotencyHeader = "Idempotency-Key"

// Handler wires HTTP endpoints for inventory module.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler constructs inventory handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers item and donation routes. Every route needs a session;
// any authenticated account may move stock.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/itens", func(r chi.Router) {
		r.Use(h.rbac.Authenticate)
		r.Get("/", h.listItems)
		r.Post("/", h.createItem)
		r.Get("/{id}", h.getItem)
		r.Put("/{id}", h.updateItem)
		r.Delete("/{id}", h.deleteItem)
		r.Put("/{id}/incremento", h.increment)
		r.Put("/{id}/decremento", h.decrement)
	})
	r.Route("/doacoes", func(r chi.Router) {
		r.Use(h.rbac.Authenticate)
		r.Get("/", h.listDonations)
		r.Post("/", h.createDonation)
		r.Get("/{id}", h.getDonation)
	})
}

type donationRequest struct {
	ItemID   int64  `json:"itemId" validate:"required,gt=0"`
	Quantity *int64 `json:"quantidade" validate:"required"`
	Date     string `json:"data" validate:"omitempty,max=64"`
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	var filter ItemFilter
	if raw := r.URL.Query().Get("abrigoId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.RespondError(w, httpx.FieldErrors{"abrigoId": "must be a positive integer"})
			return
		}
		filter.ShelterID = id
	}
	items, err := h.service.ListItems(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list items", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"itens": items})
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var input ItemInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateItem(r.Context(), input)
	if err != nil {
		h.fail(w, r, "create item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input ItemInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.UpdateItem(r.Context(), id, input)
	if err != nil {
		h.fail(w, r, "update item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, r, "delete item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Item deletado com sucesso"})
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	h.applyDelta(w, r, h.service.Increment)
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	h.applyDelta(w, r, h.service.Decrement)
}

func (h *Handler) applyDelta(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, itemID, delta int64) (Item, error)) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input DeltaInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := apply(r.Context(), id, *input.Quantity)
	if err != nil {
		h.fail(w, r, "apply delta", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"item": item})
}

func (h *Handler) listDonations(w http.ResponseWriter, r *http.Request) {
	var filter DonationFilter
	if raw := r.URL.Query().Get("itemId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.RespondError(w, httpx.FieldErrors{"itemId": "must be a positive integer"})
			return
		}
		filter.ItemID = id
	}
	donations, err := h.service.ListDonations(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "list donations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"doacoes": donations})
}

func (h *Handler) getDonation(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	donation, err := h.service.GetDonation(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get donation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"doacao": donation})
}

func (h *Handler) createDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	occurredAt, err := parseDonationDate(req.Date)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	donation, err := h.service.RecordDonation(r.Context(), DonationInput{
		ItemID:         req.ItemID,
		Quantity:       *req.Quantity,
		OccurredAt:     occurredAt,
		IdempotencyKey: r.Header.Get(IdempotencyHeader),
	})
	if err != nil {
		h.fail(w, r, "record donation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"doacao": donation})
}

// parseDonationDate accepts RFC 3339 timestamps and plain dates. Empty means now.
func parseDonationDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, httpx.FieldErrors{"data": "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"}
}
