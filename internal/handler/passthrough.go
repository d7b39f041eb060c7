package handler

import (
	"encoding/json"
	"net/http"
)

// Pass-through endpoints: the SPA reads catalog and notification data and
// performs the owner/admin actions through the gateway so every upstream
// call shares one auth and error-mapping path.

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	out, err := h.restaurants.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) restaurantMenu(w http.ResponseWriter, r *http.Request) {
	out, err := h.restaurants.Menu(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	out, err := h.orders.MyOrders(r.Context(), 0)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status, req.Notes); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) orderPayments(w http.ResponseWriter, r *http.Request) {
	out, err := h.payments.ByOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) unreadNotifications(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) setUserActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.users.SetUserActive(r.Context(), r.PathValue("id"), req.Active); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
