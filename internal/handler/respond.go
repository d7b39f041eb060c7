package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodieapp/storefront-gateway/internal/checkout"
	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// errorBody is the gateway's uniform JSON error shape.
type errorBody struct {
	Error   string `json:"error"`
	OrderID string `json:"orderId,omitempty"`
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorBody{Error: msg})
}

// respondDomainError maps domain and upstream errors onto HTTP statuses.
// Checkout-path upstream failures surface as gateway errors rather than being
// absorbed; the SPA renders them as real failures.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, cart.ErrEmptyItemID),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrNegativePrice):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var conflict *cart.CrossRestaurantError
	if errors.As(err, &conflict) {
		respondError(w, http.StatusConflict, conflict.Error())
		return
	}

	var declined *checkout.PaymentDeclinedError
	if errors.As(err, &declined) {
		respondJSON(w, http.StatusPaymentRequired, errorBody{
			Error:   "payment declined",
			OrderID: declined.OrderID,
		})
		return
	}

	if kind, ok := remote.KindOf(err); ok {
		switch kind {
		case remote.KindUnauthorized:
			respondError(w, http.StatusUnauthorized, "authentication required")
		case remote.KindUnreachable:
			respondError(w, http.StatusServiceUnavailable, "upstream service unavailable")
		default:
			respondError(w, http.StatusBadGateway, "upstream service error")
		}
		return
	}

	zctx.From(r.Context()).Error("unhandled error", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}
