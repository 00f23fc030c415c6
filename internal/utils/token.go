package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns a cryptographically random token used as a
// session cookie value. 32 bytes of entropy encoded as 64 hex chars;
// the token is opaque and carries no claims, the session store maps
// it to a user.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
