package domain

import "time"

// Session is the server-side record of an issued session token. The token itself is never stored.
type Session struct {
	ID        string
	UserID    string
	Phone     string
	TokenHash string // SHA-256 hex of the session token
	CreatedAt time.Time
	RevokedAt *time.Time // nil when not revoked
}

// Active reports whether the session has not been revoked.
func (s *Session) Active() bool {
	return s != nil && s.RevokedAt == nil
}
