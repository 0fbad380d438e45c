package middleware

import (
	"net/http"

	"github.com/BradenHooton/wikiboard/internal/services"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// RequestMeta attaches the client IP and user agent for audit records
func RequestMeta(ips *pkghttp.ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := services.WithRequestMeta(r.Context(), services.RequestMeta{
				IPAddress: ips.ClientIP(r),
				UserAgent: r.UserAgent(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
