package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// OpaqueTokenBytes is the entropy for refresh/verification/reset tokens.
// 16 random bytes hex-encode to 32 characters.
const OpaqueTokenBytes = 16

// GenerateOpaqueToken returns a hex-encoded random token value.
func GenerateOpaqueToken() (string, error) {
	b := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
