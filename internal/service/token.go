package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the entropy of generated tokens.
const TokenBytes = 32

// GenerateToken generates a cryptographically secure opaque token.
// Uses 32 bytes of random data encoded as a base64 URL-safe string.
// Used for both session tokens and invoice access tokens.
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}
