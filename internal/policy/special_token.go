package policy

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// specialTokenBytes is 256 bits of entropy.
const specialTokenBytes = 32

// NewSpecialAccessToken returns a fresh hex-encoded access token for a special post.
func NewSpecialAccessToken() (string, error) {
	b := make([]byte, specialTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate special access token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
