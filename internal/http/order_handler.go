package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

func (h *Handler) LastOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.checkout.LastOrder(r.Context(), session(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if !checkout.ValidPhone(phone) {
		writeError(w, r, http.StatusBadRequest, "invalid phone number")
		return
	}
	orders, err := h.orders.ListByPhone(r.Context(), phone)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
