// Package otp generates, hashes and compares one-time codes and normalizes phone numbers.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/karan399/milkman/internal/otp/domain"
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly random 6-digit numeric code ("000000".."999999") from crypto/rand.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", domain.CodeLength, n.Int64()), nil
}

// HashCode returns a SHA-256 hash of the code, hex-encoded.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// CodeEqual reports whether the provided code hashes to storedHash, in constant time.
// The comparison is exact: no trimming or normalization. An empty code never matches.
func CodeEqual(provided, storedHash string) bool {
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(HashCode(provided)), []byte(storedHash)) == 1
}
