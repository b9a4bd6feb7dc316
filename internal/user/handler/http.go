// Package handler serves the signed-in user's profile over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	addressdomain "github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/platform/httpx"
	"github.com/karan399/milkman/internal/server/middleware"
	"github.com/karan399/milkman/internal/user/domain"
	"github.com/karan399/milkman/internal/user/service"
)

// ProfileService is the subset of the user service used by the handler.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (*domain.User, []*addressdomain.Address, error)
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error)
}

// Handler serves GET and PATCH /me. Routes must sit behind middleware.RequireSession.
type Handler struct {
	svc ProfileService
	log *zap.Logger
}

// NewHandler returns a profile handler. log may be nil.
func NewHandler(svc ProfileService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// GetMe returns the user with addresses.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	u, addresses, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.UserFromDomain(u, addresses))
}

// UpdateMe updates name and/or email and returns the user with addresses.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(r.Context())
	if _, err := h.svc.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{Name: req.Name, Email: req.Email}); err != nil {
		h.writeError(w, err)
		return
	}
	u, addresses, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.UserFromDomain(u, addresses))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	h.log.Error("user: request failed", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
