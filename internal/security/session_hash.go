package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashSessionToken returns a SHA-256 hash of the session token, hex-encoded.
// Sessions are stored and looked up by this hash; the raw token is never persisted server side.
func HashSessionToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// SessionTokenHashEqual performs constant-time comparison of the provided token's hash
// with the stored hash. Returns false for an empty token.
func SessionTokenHashEqual(providedToken, storedHash string) bool {
	if providedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashSessionToken(providedToken)), []byte(storedHash)) == 1
}
