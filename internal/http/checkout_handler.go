package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/checkout"
)

func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, status int, v checkout.View, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if v.Items == nil {
		v.Items = []cart.Line{}
	}
	writeJSON(w, status, v)
}

func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	v, err := h.checkout.Begin(r.Context(), session(r))
	h.writeView(w, r, http.StatusOK, v, err)
}

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	v, err := h.checkout.Get(r.Context(), session(r))
	h.writeView(w, r, http.StatusOK, v, err)
}

func (h *Handler) SaveCheckoutDetails(w http.ResponseWriter, r *http.Request) {
	var d checkout.Details
	if !decodeJSON(w, r, &d) {
		return
	}
	v, err := h.checkout.SaveDetails(r.Context(), session(r), d)
	h.writeView(w, r, http.StatusOK, v, err)
}

func (h *Handler) NextCheckoutStep(w http.ResponseWriter, r *http.Request) {
	v, err := h.checkout.Next(r.Context(), session(r))
	status := http.StatusOK
	if v.Order != nil {
		status = http.StatusCreated
	}
	h.writeView(w, r, status, v, err)
}

func (h *Handler) PreviousCheckoutStep(w http.ResponseWriter, r *http.Request) {
	v, err := h.checkout.Back(r.Context(), session(r))
	h.writeView(w, r, http.StatusOK, v, err)
}

func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"slots": h.checkout.AvailableSlots()})
}

func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SlotID string `json:"slotId"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.SlotID == "" {
		writeError(w, r, http.StatusBadRequest, "missing slotId")
		return
	}
	v, err := h.checkout.SelectSlot(r.Context(), session(r), body.SlotID)
	h.writeView(w, r, http.StatusOK, v, err)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	v, err := h.checkout.PlaceOrder(r.Context(), session(r))
	h.writeView(w, r, http.StatusCreated, v, err)
}
