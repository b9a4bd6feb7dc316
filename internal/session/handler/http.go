// Package handler serves session endpoints for signed-in users.
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/platform/httpx"
	"github.com/karan399/milkman/internal/server/middleware"
	"github.com/karan399/milkman/internal/session/domain"
	sessionservice "github.com/karan399/milkman/internal/session/service"
)

// LogoutService revokes a session.
type LogoutService interface {
	Logout(ctx context.Context, sess *domain.Session) error
}

// Handler serves POST /auth/logout. Must be mounted behind middleware.RequireSession.
type Handler struct {
	svc LogoutService
	log *zap.Logger
}

// NewHandler returns a session handler. log may be nil.
func NewHandler(svc LogoutService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Logout revokes the caller's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Logout(r.Context(), middleware.GetSession(r.Context()))
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, api.SuccessResponse{Success: true, Message: "Logged out"})
	case errors.Is(err, sessionservice.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.Error("session: logout failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
