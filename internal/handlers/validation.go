package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// maxBodyBytes bounds request bodies. Gallery images may be data URLs.
const maxBodyBytes = 8 << 20

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator
// and returns the first failing field with a readable message
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("%s: %s", ve[0].Field(), formatValidationError(ve[0]))
		}
		return err
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			pkghttp.WriteValidationError(w, "request body is required", "")
			return false
		}
		pkghttp.WriteValidationError(w, "invalid request body", err.Error())
		return false
	}

	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteValidationError(w, "validation failed", err.Error())
		return false
	}
	return true
}

// pageParams reads limit and offset query parameters. Missing values are 0
// and the service layer applies defaults.
func pageParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			pkghttp.WriteValidationError(w, "invalid limit", v)
			return 0, 0, false
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			pkghttp.WriteValidationError(w, "invalid offset", v)
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
