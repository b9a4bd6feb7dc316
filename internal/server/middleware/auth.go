package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/platform/httpx"
	sessiondomain "github.com/karan399/milkman/internal/session/domain"
	sessionservice "github.com/karan399/milkman/internal/session/service"
)

// Authenticator resolves a bearer token to its session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*sessiondomain.Session, error)
}

// RequireSession rejects requests without a valid "Authorization: Bearer <sessionToken>" with 401
// and stores the session in the context of the rest.
func RequireSession(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := auth.Authenticate(r.Context(), httpx.BearerToken(r))
			if err != nil {
				if errors.Is(err, sessionservice.ErrUnauthenticated) {
					httpx.WriteError(w, http.StatusUnauthorized, sessionservice.ErrUnauthenticated.Error())
					return
				}
				log.Error("auth: session lookup failed", zap.Error(err))
				httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}
