package middleware

import (
	"context"

	sessiondomain "github.com/karan399/milkman/internal/session/domain"
)

type contextKey struct{ name string }

var (
	userIDKey    = contextKey{"user_id"}
	sessionIDKey = contextKey{"session_id"}
	sessionKey   = contextKey{"session"}
	clientIPKey  = contextKey{"client_ip"}
)

// WithSession returns a context carrying the authenticated session and its user_id and session_id.
func WithSession(ctx context.Context, s *sessiondomain.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	return WithIdentity(ctx, s.UserID, s.ID)
}

// WithIdentity returns a context with user_id and session_id set.
func WithIdentity(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetSessionID returns the session_id from context and true if set; otherwise "", false.
func GetSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok
}

// GetSession returns the authenticated session, or nil.
func GetSession(ctx context.Context) *sessiondomain.Session {
	s, _ := ctx.Value(sessionKey).(*sessiondomain.Session)
	return s
}

// WithClientIP returns a context carrying the caller's IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the IP stored by the ClientIP middleware, or "" if unset.
// It matches audit.IPExtractor.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
