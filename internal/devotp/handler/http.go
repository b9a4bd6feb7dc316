// Package handler serves the dev-only OTP lookup endpoint.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karan399/milkman/internal/devotp"
	"github.com/karan399/milkman/internal/otp"
	"github.com/karan399/milkman/internal/platform/httpx"
)

const devOTPNote = "DEV MODE ONLY"

// Handler serves GET /dev/otp/{phone}. Only mounted when demo mode is on and APP_ENV is not production.
type Handler struct {
	store devotp.Store
}

// NewHandler returns a handler reading from store.
func NewHandler(store devotp.Store) *Handler {
	return &Handler{store: store}
}

// GetOTPResponse is the body of a successful lookup.
type GetOTPResponse struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
	Note  string `json:"note"`
}

// GetOTP returns the latest demo code for the phone in the path.
func (h *Handler) GetOTP(w http.ResponseWriter, r *http.Request) {
	phone := otp.NormalizePhone(chi.URLParam(r, "phone"))
	if !otp.ValidPhone(phone) {
		httpx.WriteError(w, http.StatusBadRequest, "Valid phone number is required")
		return
	}
	code, ok := h.store.Get(r.Context(), phone)
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "OTP not found or expired")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, GetOTPResponse{Phone: phone, OTP: code, Note: devOTPNote})
}
