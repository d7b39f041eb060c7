package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodieapp/storefront-gateway/internal/upstream"
)

func TestListRestaurants(t *testing.T) {
	backend := newTestBackend(t)
	backend.mux.HandleFunc("GET /restaurants", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"r-1","name":"Pizza Palace","rating":4.6}]}`))
	})
	h := newAPI(t, backend)

	w := do(t, h, http.MethodGet, "/api/restaurants", uuid.NewString(), "")

	require.Equal(t, http.StatusOK, w.Code)
	var out []upstream.Restaurant
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, "Pizza Palace", out[0].Name)
}

func TestRestaurantMenu_NotFound(t *testing.T) {
	h := newAPI(t, newTestBackend(t))

	w := do(t, h, http.MethodGet, "/api/restaurants/r-404/menu", uuid.NewString(), "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	backend := newTestBackend(t)
	var gotStatus string
	backend.mux.HandleFunc("PUT /orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotStatus = body["status"]
	})
	h := newAPI(t, backend)

	w := do(t, h, http.MethodPut, "/api/orders/ord-1/status", uuid.NewString(), `{"status":"PREPARING"}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "PREPARING", gotStatus)
}

func TestUnreadNotifications(t *testing.T) {
	backend := newTestBackend(t)
	backend.mux.HandleFunc("GET /notifications/unread/count", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":7}`))
	})
	h := newAPI(t, backend)

	w := do(t, h, http.MethodGet, "/api/notifications/unread", uuid.NewString(), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":7}`, w.Body.String())
}

func TestSetUserActive_Unauthorized(t *testing.T) {
	backend := newTestBackend(t)
	backend.mux.HandleFunc("POST /admin/{action}/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	h := newAPI(t, backend)

	w := do(t, h, http.MethodPost, "/api/admin/users/u-1/active", uuid.NewString(), `{"active":false}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
