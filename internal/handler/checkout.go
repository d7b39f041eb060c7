package handler

import (
	"encoding/json"
	"net/http"

	"github.com/foodieapp/storefront-gateway/internal/checkout"
)

func (h *Handler) postCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Get(r.Context(), sessionID(w, r))
	conf, err := h.checkout.Checkout(r.Context(), c, req)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, conf)
}
