// Package security hashes and encodes storefront session tokens.
package security

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

// ErrMalformedSessionToken is returned when a token is not base64 JSON with the expected fields.
var ErrMalformedSessionToken = errors.New("malformed session token")

// SessionClaims is the payload of a session token.
// Timestamp is the issuance time in Unix milliseconds.
type SessionClaims struct {
	UserID    string `json:"userId"`
	Phone     string `json:"phone"`
	Timestamp int64  `json:"timestamp"`
}

// IssuedAt returns Timestamp as a time.
func (c SessionClaims) IssuedAt() time.Time {
	return time.UnixMilli(c.Timestamp).UTC()
}

// EncodeSessionToken returns base64 (standard encoding) of the JSON claims. The token is not signed;
// the server trusts it only through the session row keyed by its hash.
func EncodeSessionToken(c SessionClaims) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeSessionToken parses a token produced by EncodeSessionToken.
func DecodeSessionToken(token string) (SessionClaims, error) {
	var c SessionClaims
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return c, ErrMalformedSessionToken
	}
	if err := json.Unmarshal(raw, &c); err != nil || c.UserID == "" || c.Phone == "" {
		return SessionClaims{}, ErrMalformedSessionToken
	}
	return c, nil
}
