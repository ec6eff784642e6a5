package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/backend"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

const maxBodyBytes = 1 << 20

// BackendProbe reports the health of the external order backend.
type BackendProbe interface {
	Health(ctx context.Context) (backend.HealthStatus, error)
}

type Handler struct {
	carts    *cart.Service
	checkout *checkout.Service
	orders   order.Repository
	backend  BackendProbe
	logger   *zap.Logger
}

type Deps struct {
	Carts    *cart.Service
	Checkout *checkout.Service
	Orders   order.Repository
	// Backend is optional.
	Backend BackendProbe
	Logger  *zap.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		carts:    d.Carts,
		checkout: d.Checkout,
		orders:   d.Orders,
		backend:  d.Backend,
		logger:   d.Logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"service": "laundry-service-go",
	}
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if _, err := h.backend.Health(ctx); err != nil {
			resp["backend"] = map[string]any{"ok": false, "error": backend.UserMessage(err)}
		} else {
			resp["backend"] = map[string]any{"ok": true}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error         string                `json:"error"`
	Fields        []checkout.FieldError `json:"fields,omitempty"`
	MinOrderValue string                `json:"minOrderValue,omitempty"`
	Remaining     string                `json:"remaining,omitempty"`
	CorrelationID string                `json:"correlationId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeServiceError maps domain errors to a status code. Anything unknown
// is logged and reported as a 500 without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{
		Error:         err.Error(),
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	}

	var minErr *checkout.MinimumOrderError
	var valErr *checkout.ValidationError
	switch {
	case errors.As(err, &minErr):
		resp.MinOrderValue = minErr.Minimum.StringFixed(2)
		resp.Remaining = minErr.Remaining.StringFixed(2)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.As(err, &valErr):
		resp.Fields = valErr.Fields
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoSlot),
		errors.Is(err, checkout.ErrSlotUnavailable):
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, checkout.ErrNotStarted),
		errors.Is(err, checkout.ErrWrongStep):
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, checkout.ErrUnknownSlot):
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, catalog.ErrUnknownItem),
		errors.Is(err, catalog.ErrUnknownCategory),
		errors.Is(err, order.ErrNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("session", middleware.GetSessionID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func session(r *http.Request) string {
	return middleware.GetSessionID(r.Context())
}
