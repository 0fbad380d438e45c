package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultWriteRateLimit is the per-IP budget for reports, comments and likes
func DefaultWriteRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 30}
}

// RateLimitByIP limits requests per client IP as resolved by ips
func RateLimitByIP(config RateLimitConfig, ips *pkghttp.ClientIPResolver) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return ips.ClientIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "rate limit exceeded, try again later")
		}),
	)
}
