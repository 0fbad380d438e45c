package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BradenHooton/wikiboard/internal/models"
)

// ErrInvalidToken is returned for any bearer token that fails verification.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", models.ErrUnauthorized)

// TokenVerifier validates access tokens issued by the identity provider.
// Tokens must be HS256, carry a subject, and match the configured issuer and
// audience when those are set.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

// NewTokenVerifier creates a TokenVerifier for the shared IdP secret
func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   30 * time.Second,
	}
}

// Verify parses tokenString and returns its claims
func (v *TokenVerifier) Verify(tokenString string) (*models.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", models.ErrUnauthorized)
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Issue signs a token for identity with the verifier's own settings. It backs
// local development tokens and tests; production tokens come from the IdP.
func (v *TokenVerifier) Issue(identity models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.Subject,
			Issuer:    v.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if v.audience != "" {
		claims.Audience = jwt.ClaimStrings{v.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
