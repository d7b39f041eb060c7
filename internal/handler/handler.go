// Package handler exposes the gateway's JSON API to the storefront SPA:
// session cart operations, checkout, and the role dashboards.
package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/foodieapp/storefront-gateway/internal/checkout"
	"github.com/foodieapp/storefront-gateway/internal/dashboard"
	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
	"github.com/foodieapp/storefront-gateway/internal/remote"
	"github.com/foodieapp/storefront-gateway/internal/upstream"
)

// sessionHeader identifies the SPA session. The gateway mints one when the
// client does not send it; the SPA persists the echoed value.
const sessionHeader = "X-Session-ID"

// Clients groups the upstream clients backing the pass-through endpoints.
type Clients struct {
	Users         *upstream.UserClient
	Restaurants   *upstream.RestaurantClient
	Orders        *upstream.OrderClient
	Payments      *upstream.PaymentClient
	Notifications *upstream.NotificationClient
}

// Handler serves the storefront API.
type Handler struct {
	carts      *cart.Store
	checkout   *checkout.Service
	dashboards *dashboard.Service

	users         *upstream.UserClient
	restaurants   *upstream.RestaurantClient
	orders        *upstream.OrderClient
	payments      *upstream.PaymentClient
	notifications *upstream.NotificationClient
}

// NewHandler constructs a Handler with the required services.
func NewHandler(carts *cart.Store, co *checkout.Service, dashboards *dashboard.Service, clients Clients) *Handler {
	return &Handler{
		carts:         carts,
		checkout:      co,
		dashboards:    dashboards,
		users:         clients.Users,
		restaurants:   clients.Restaurants,
		orders:        clients.Orders,
		payments:      clients.Payments,
		notifications: clients.Notifications,
	}
}

// Routes returns the API routing table. Session and auth handling applies to
// every route.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("POST /api/cart/items", h.addItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.updateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeItem)

	mux.HandleFunc("POST /api/checkout", h.postCheckout)

	mux.HandleFunc("GET /api/dashboard/admin", h.adminDashboard)
	mux.HandleFunc("GET /api/dashboard/owner", h.ownerDashboard)
	mux.HandleFunc("GET /api/dashboard/customer", h.customerDashboard)

	mux.HandleFunc("GET /api/restaurants", h.listRestaurants)
	mux.HandleFunc("GET /api/restaurants/{id}/menu", h.restaurantMenu)
	mux.HandleFunc("GET /api/orders", h.myOrders)
	mux.HandleFunc("PUT /api/orders/{id}/status", h.updateOrderStatus)
	mux.HandleFunc("GET /api/orders/{id}/payments", h.orderPayments)
	mux.HandleFunc("GET /api/notifications/unread", h.unreadNotifications)
	mux.HandleFunc("POST /api/admin/users/{id}/active", h.setUserActive)

	return h.session(mux)
}

// session ensures every request carries a session ID and moves the caller's
// bearer token into the context so upstream calls authenticate as the
// session. A missing token is fine: unauthenticated calls still reach
// upstreams and come back as Unauthorized where it matters.
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(sessionHeader, id)

		ctx := r.Context()
		if auth := r.Header.Get("Authorization"); auth != "" {
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
				ctx = remote.ContextWithToken(ctx, token)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the request's session identifier. The session middleware
// has already ensured the response header carries it.
func sessionID(w http.ResponseWriter, _ *http.Request) string {
	return w.Header().Get(sessionHeader)
}
