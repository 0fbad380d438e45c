package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/BradenHooton/wikiboard/internal/policy"
	pkghttp "github.com/BradenHooton/wikiboard/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	userContextKey contextKey = "user"
	banContextKey  contextKey = "ban"
)

// IdentitySyncer records a verified identity and returns the local user
type IdentitySyncer interface {
	SyncIdentity(ctx context.Context, identity models.Identity) (*models.User, error)
}

// BanChecker evaluates (and lazily clears) a user's ban
type BanChecker interface {
	CheckBanStatus(ctx context.Context, user *models.User) (policy.BanDecision, error)
}

// Middleware authenticates bearer tokens and loads the current user
type Middleware struct {
	verifier *TokenVerifier
	users    IdentitySyncer
	bans     BanChecker
	logger   *slog.Logger
}

// NewMiddleware creates the authentication middleware set
func NewMiddleware(verifier *TokenVerifier, users IdentitySyncer, bans BanChecker, logger *slog.Logger) *Middleware {
	return &Middleware{
		verifier: verifier,
		users:    users,
		bans:     bans,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid bearer token. The current user
// and their ban decision are placed in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			pkghttp.WriteUnauthorized(w, "missing or malformed authorization header")
			return
		}

		ctx, err := m.authenticate(r.Context(), tokenString)
		if err != nil {
			m.writeAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the current user when a bearer token is present and
// otherwise serves the request anonymously. A present but invalid token is
// still rejected.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			pkghttp.WriteUnauthorized(w, "malformed authorization header")
			return
		}

		ctx, err := m.authenticate(r.Context(), tokenString)
		if err != nil {
			m.writeAuthError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireNotBanned blocks users whose ban is in force. It must run after
// RequireAuth.
func (m *Middleware) RequireNotBanned(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			pkghttp.WriteUnauthorized(w, "authentication required")
			return
		}

		if decision := BanDecision(r.Context()); decision.Banned {
			details := decision.Reason
			if decision.Until != nil {
				details = strings.TrimSpace(details + " (until " + decision.Until.UTC().Format("2006-01-02T15:04:05Z") + ")")
			}
			pkghttp.WriteBanned(w, "account is banned", details)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCapability rejects users lacking c. It must run after RequireAuth.
func RequireCapability(c policy.Capability) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				pkghttp.WriteUnauthorized(w, "authentication required")
				return
			}
			if !policy.HasCapability(user, c) {
				pkghttp.WriteForbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) authenticate(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := m.verifier.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := m.users.SyncIdentity(ctx, claims.Identity())
	if err != nil {
		return nil, err
	}

	decision, err := m.bans.CheckBanStatus(ctx, user)
	if err != nil {
		return nil, err
	}

	return WithBanDecision(WithUser(ctx, user), decision), nil
}

func (m *Middleware) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrUnauthorized) {
		m.logger.DebugContext(r.Context(), "bearer token rejected", slog.Any("error", err))
		pkghttp.WriteUnauthorized(w, "invalid or expired token")
		return
	}
	m.logger.ErrorContext(r.Context(), "authentication failed", slog.Any("error", err))
	pkghttp.WriteInternalError(w, "internal server error")
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// WithUser returns ctx carrying user as the current user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// CurrentUser returns the authenticated user, or nil for anonymous requests
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithBanDecision returns ctx carrying the current user's ban decision
func WithBanDecision(ctx context.Context, decision policy.BanDecision) context.Context {
	return context.WithValue(ctx, banContextKey, decision)
}

// BanDecision returns the ban decision made when the request was authenticated
func BanDecision(ctx context.Context) policy.BanDecision {
	decision, _ := ctx.Value(banContextKey).(policy.BanDecision)
	return decision
}
