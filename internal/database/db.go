package database

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// MapPostgresError translates driver errors into model sentinels.
// Unrecognised errors are returned unchanged.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return models.ErrConflict
		case "23503": // foreign_key_violation: the referenced parent is gone
			return models.ErrNotFound
		case "23502", "23514": // not_null_violation, check_violation
			return models.ErrValidation
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return models.ErrNotFound
		}
	}

	return err
}
