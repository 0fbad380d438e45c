package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS allows only the configured origins. Bearer tokens travel in the
// Authorization header, so credentials (cookies) are not allowed.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	maxAge := config.MaxAge
	if maxAge == 0 {
		maxAge = 3600
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           maxAge,
	})
}
