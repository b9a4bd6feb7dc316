// Package handler serves the contact form endpoint.
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/contact/domain"
	"github.com/karan399/milkman/internal/platform/httpx"
)

// ContactService accepts contact submissions.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*domain.Message, error)
}

// Handler serves POST /contact.
type Handler struct {
	svc ContactService
	log *zap.Logger
}

// NewHandler returns a contact handler. log may be nil.
func NewHandler(svc ContactService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Create stores and forwards one contact message.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.ContactRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		var reqErr *httpx.RequestError
		if errors.As(err, &reqErr) && missingRequired(reqErr, req) {
			httpx.WriteError(w, http.StatusBadRequest, "Missing fields")
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.svc.Submit(r.Context(), req.Name, req.Email, req.Message); err != nil {
		h.log.Error("contact: submit failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.SuccessResponse{Success: true})
}

// missingRequired reports a validation failure caused by an empty required field.
func missingRequired(err *httpx.RequestError, req api.ContactRequest) bool {
	values := map[string]string{"name": req.Name, "email": req.Email, "message": req.Message}
	for _, f := range err.Fields {
		if v, ok := values[f]; ok && v == "" {
			return true
		}
	}
	return false
}
