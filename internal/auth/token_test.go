package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/wikiboard/internal/models"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier(testSecret, "https://idp.test", "wikiboard")

	token, err := v.Issue(models.Identity{Subject: "sub-1", Email: "a@example.com", Name: "Alice", AvatarURL: "https://x/a.png"}, time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	identity := claims.Identity()
	assert.Equal(t, "sub-1", identity.Subject)
	assert.Equal(t, "a@example.com", identity.Email)
	assert.Equal(t, "Alice", identity.Name)
	assert.Equal(t, "https://x/a.png", identity.AvatarURL)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier(testSecret, "https://idp.test", "wikiboard")

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() *models.TokenClaims {
		return &models.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "sub-1",
			Issuer:    "https://idp.test",
			Audience:  jwt.ClaimStrings{"wikiboard"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "https://evil.test"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other-app"}
	noSubject := valid()
	noSubject.Subject = ""
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(valid(), jwt.SigningMethodHS256, []byte("another-secret"))},
		{"wrong algorithm", sign(valid(), jwt.SigningMethodHS512, []byte(testSecret))},
		{"none algorithm", sign(valid(), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte(testSecret))},
		{"wrong issuer", sign(wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret))},
		{"wrong audience", sign(wrongAudience, jwt.SigningMethodHS256, []byte(testSecret))},
		{"missing subject", sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret))},
		{"missing expiry", sign(noExpiry, jwt.SigningMethodHS256, []byte(testSecret))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestTokenVerifier_NoIssuerOrAudienceConfigured(t *testing.T) {
	v := NewTokenVerifier(testSecret, "", "")
	other := NewTokenVerifier(testSecret, "https://anything.test", "any")

	token, err := other.Issue(models.Identity{Subject: "sub-1"}, time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.NoError(t, err)
}
