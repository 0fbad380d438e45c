package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

func TestWriteErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteErrorWithDetails(w, 400, "test_error", "Test message", "Additional details")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test_error", resp.Error)
	assert.Equal(t, "Test message", resp.Message)
	assert.Equal(t, "Additional details", resp.Details)
}

func TestWriteError_OmitsEmptyDetails(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteError(w, 401, "unauthorized", "Invalid token")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "unauthorized", raw["error"])
	assert.NotContains(t, raw, "details")
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"validation", func(w http.ResponseWriter) { pkghttp.WriteValidationError(w, "bad", "title") }, 400, "validation_error"},
		{"bad request", func(w http.ResponseWriter) { pkghttp.WriteBadRequest(w, "bad") }, 400, "bad_request"},
		{"unauthorized", func(w http.ResponseWriter) { pkghttp.WriteUnauthorized(w, "who") }, 401, "unauthorized"},
		{"forbidden", func(w http.ResponseWriter) { pkghttp.WriteForbidden(w, "no") }, 403, "forbidden"},
		{"access denied", func(w http.ResponseWriter) { pkghttp.WriteAccessDenied(w, "no") }, 403, "access_denied"},
		{"banned", func(w http.ResponseWriter) { pkghttp.WriteBanned(w, "banned", "spam") }, 403, "banned"},
		{"not found", func(w http.ResponseWriter) { pkghttp.WriteNotFound(w, "gone") }, 404, "not_found"},
		{"conflict", func(w http.ResponseWriter) { pkghttp.WriteConflict(w, "dup") }, 409, "conflict"},
		{"too many requests", func(w http.ResponseWriter) { pkghttp.WriteTooManyRequests(w, "slow") }, 429, "rate_limit_exceeded"},
		{"internal", func(w http.ResponseWriter) { pkghttp.WriteInternalError(w, "oops") }, 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp pkghttp.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]int{"likes": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"likes":3}`, w.Body.String())
}
