package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
)

// cartItemView is one cart line on the wire.
type cartItemView struct {
	MenuItemID     string  `json:"menuItemId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	LineTotal      float64 `json:"lineTotal"`
	RestaurantID   string  `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
}

// cartView is the SPA-facing cart state.
type cartView struct {
	Items        []cartItemView  `json:"items"`
	Subtotal     float64         `json:"subtotal"`
	ItemCount    int             `json:"itemCount"`
	RestaurantID string          `json:"restaurantId,omitempty"`
	SyncStatus   cart.SyncStatus `json:"syncStatus"`
}

func viewOf(snap cart.Snapshot) cartView {
	items := make([]cartItemView, len(snap.Lines))
	for i, line := range snap.Lines {
		items[i] = cartItemView{
			MenuItemID:     line.ItemID,
			Name:           line.Name,
			Price:          line.UnitPrice.InexactFloat64(),
			Quantity:       line.Quantity,
			LineTotal:      line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).InexactFloat64(),
			RestaurantID:   line.RestaurantID,
			RestaurantName: line.RestaurantName,
		}
	}
	return cartView{
		Items:        items,
		Subtotal:     snap.Subtotal.InexactFloat64(),
		ItemCount:    snap.ItemCount,
		RestaurantID: snap.RestaurantID,
		SyncStatus:   snap.SyncStatus,
	}
}

// addItemRequest is the add-to-cart payload.
type addItemRequest struct {
	MenuItemID     string  `json:"menuItemId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	RestaurantID   string  `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(r.Context(), sessionID(w, r))
	respondJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Get(r.Context(), sessionID(w, r))
	err := c.AddItem(r.Context(), cart.Line{
		ItemID:         req.MenuItemID,
		Name:           req.Name,
		UnitPrice:      decimal.NewFromFloat(req.Price),
		Quantity:       req.Quantity,
		RestaurantID:   req.RestaurantID,
		RestaurantName: req.RestaurantName,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c := h.carts.Get(r.Context(), sessionID(w, r))
	c.SetQuantity(r.Context(), r.PathValue("id"), req.Quantity)
	respondJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(r.Context(), sessionID(w, r))
	c.RemoveItem(r.Context(), r.PathValue("id"))
	respondJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Get(r.Context(), sessionID(w, r))
	c.Clear(r.Context())
	respondJSON(w, http.StatusOK, viewOf(c.Snapshot()))
}
