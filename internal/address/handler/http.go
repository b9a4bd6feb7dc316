// Package handler serves the signed-in user's delivery addresses over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/address/service"
	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/platform/httpx"
	"github.com/karan399/milkman/internal/server/middleware"
)

// AddressService is the subset of the address service used by the handler.
type AddressService interface {
	List(ctx context.Context, userID string) ([]*domain.Address, error)
	Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, userID, id string, p domain.Patch) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	SetDefault(ctx context.Context, userID, id string) ([]*domain.Address, error)
}

// Handler serves /me/addresses. Routes must sit behind middleware.RequireSession and carry {id}
// where an address is addressed.
type Handler struct {
	svc AddressService
	log *zap.Logger
}

// NewHandler returns an address handler. log may be nil.
func NewHandler(svc AddressService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// List handles GET /me/addresses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.AddressesResponse{Addresses: api.AddressesFromDomain(list)})
}

// Create handles POST /me/addresses.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateAddressRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Create(r.Context(), userID(r), domain.Address{
		Type:        domain.AddressType(req.Type),
		Name:        req.Name,
		Line:        req.Address,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Landmark:    req.Landmark,
		IsDefault:   req.IsDefault,
		Coordinates: toCoordinates(req.Coordinates),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, api.AddressFromDomain(a))
}

// Update handles PATCH /me/addresses/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateAddressRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p := domain.Patch{
		Name:        req.Name,
		Line:        req.Address,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		Landmark:    req.Landmark,
		IsDefault:   req.IsDefault,
		Coordinates: toCoordinates(req.Coordinates),
	}
	if req.Type != nil {
		t := domain.AddressType(*req.Type)
		p.Type = &t
	}
	a, err := h.svc.Update(r.Context(), userID(r), chi.URLParam(r, "id"), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.AddressFromDomain(a))
}

// Delete handles DELETE /me/addresses/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

// SetDefault handles POST /me/addresses/{id}/default and returns the updated list.
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.SetDefault(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.AddressesResponse{Addresses: api.AddressesFromDomain(list)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "Address not found")
	case errors.As(err, &ve):
		httpx.WriteError(w, http.StatusBadRequest, ve.Message)
	default:
		h.log.Error("address: request failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func userID(r *http.Request) string {
	id, _ := middleware.GetUserID(r.Context())
	return id
}

func toCoordinates(c *api.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Lat: c.Lat, Lng: c.Lng}
}
