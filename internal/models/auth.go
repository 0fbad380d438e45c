package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims read from an identity provider access token.
type TokenClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into an Identity.
func (c *TokenClaims) Identity() Identity {
	return Identity{
		Subject:   c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		AvatarURL: c.Picture,
	}
}
