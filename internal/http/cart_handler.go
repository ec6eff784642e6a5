package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
)

type cartResponse struct {
	Items   []cart.Line  `json:"items"`
	Summary cart.Summary `json:"summary"`
}

func newCartResponse(c cart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Line{}
	}
	return cartResponse{Items: items, Summary: c.Summary()}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), session(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ItemID   string `json:"itemId"`
		Quantity *int   `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ItemID == "" {
		writeError(w, r, http.StatusBadRequest, "missing itemId")
		return
	}
	qty := 1
	if body.Quantity != nil {
		qty = *body.Quantity
	}
	if qty < 1 {
		writeError(w, r, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	c, err := h.carts.Add(r.Context(), session(r), body.ItemID, qty)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity *int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Quantity == nil {
		writeError(w, r, http.StatusBadRequest, "missing quantity")
		return
	}

	c, err := h.carts.SetQuantity(r.Context(), session(r), chi.URLParam(r, "itemId"), *body.Quantity)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Remove(r.Context(), session(r), chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(c))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), session(r)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(cart.Cart{}))
}
