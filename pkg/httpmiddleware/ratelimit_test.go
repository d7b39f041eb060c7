package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doReq(h http.Handler, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BurstThenDeny(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 0.001, Burst: 3})(okHandler())

	for i := range 3 {
		w := doReq(h, "10.0.0.1:1000")
		require.Equal(t, http.StatusOK, w.Code, "request %d within burst", i+1)
	}

	w := doReq(h, "10.0.0.1:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 0.001, Burst: 1})(okHandler())

	assert.Equal(t, http.StatusOK, doReq(h, "10.0.0.1:1").Code)
	assert.Equal(t, http.StatusOK, doReq(h, "10.0.0.2:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doReq(h, "10.0.0.1:2").Code)
}

func TestRateLimit_ForwardedForWins(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 0.001, Burst: 1})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1000"
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.RemoteAddr = "192.0.2.2:2000"
	req2.Header.Set("X-Forwarded-For", "203.0.113.50")
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRateLimit_CustomKey(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		RPS:   0.001,
		Burst: 1,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-Session-ID")
		},
	})(okHandler())

	send := func(session string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-ID", session)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("s-a"))
	assert.Equal(t, http.StatusTooManyRequests, send("s-a"))
	assert.Equal(t, http.StatusOK, send("s-b"))
}

func TestRateLimit_Refills(t *testing.T) {
	h := RateLimit(RateLimitConfig{RPS: 50, Burst: 1})(okHandler())

	require.Equal(t, http.StatusOK, doReq(h, "10.0.0.9:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doReq(h, "10.0.0.9:1").Code)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doReq(h, "10.0.0.9:1").Code)
}
