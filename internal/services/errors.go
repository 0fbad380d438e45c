package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// passthroughErrors are sentinels a service may return to its caller as-is.
var passthroughErrors = []error{
	models.ErrNotFound,
	models.ErrConflict,
	models.ErrValidation,
	models.ErrForbidden,
	models.ErrUnauthorized,
	models.ErrAccessDenied,
}

// storeError keeps model sentinels and hides everything else behind
// ErrInternalServer after logging it.
func storeError(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) error {
	for _, sentinel := range passthroughErrors {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	logger.ErrorContext(ctx, msg, append(attrs, slog.Any("error", err))...)
	return models.ErrInternalServer
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
