package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BradenHooton/wikiboard/internal/models"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// writeServiceError maps a service sentinel to its HTTP error response.
// Unexpected errors are logged, reported to Sentry and returned without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		pkghttp.WriteValidationError(w, "validation failed", ve.Error())
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteValidationError(w, "validation failed", "")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "authentication required")
	case errors.Is(err, models.ErrAccessDenied):
		pkghttp.WriteAccessDenied(w, "access denied")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "insufficient permissions")
	case errors.Is(err, models.ErrBanned):
		pkghttp.WriteBanned(w, "account is banned", "")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "resource not found")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "resource already exists")
	default:
		reportInternal(r, err)
		if logger != nil {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
		pkghttp.WriteInternalError(w, "internal server error")
	}
}

// reportInternal sends err to Sentry when a client is configured.
func reportInternal(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", r.Method)
		scope.SetTag("path", r.URL.Path)
		if id := middleware.GetReqID(r.Context()); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}
