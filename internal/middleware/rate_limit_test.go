package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

func TestRateLimitByIP(t *testing.T) {
	limiter := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 2}, pkghttp.NewClientIPResolver(nil))
	handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/entries/e1/like", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, send("203.0.113.1:1000").Code)
	assert.Equal(t, http.StatusCreated, send("203.0.113.1:1001").Code)

	limited := send("203.0.113.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &resp))
	assert.Equal(t, "rate_limit_exceeded", resp.Error)

	// A different client has its own budget.
	assert.Equal(t, http.StatusCreated, send("203.0.113.2:1000").Code)
}

func TestRateLimitByIP_SpoofedHeaderFromUntrustedPeer(t *testing.T) {
	limiter := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1}, pkghttp.NewClientIPResolver([]string{"10.0.0.0/8"}))
	handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i, xff := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/comments", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}
