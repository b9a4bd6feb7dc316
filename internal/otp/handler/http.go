// Package handler serves the OTP issuance and verification endpoints over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/otp/service"
	"github.com/karan399/milkman/internal/platform/httpx"
)

// Client-facing messages.
const (
	msgPhoneRequired     = "Valid phone number is required"
	msgPhoneAndOTP       = "Phone number and OTP are required"
	msgSentSMS           = "OTP sent successfully via SMS"
	msgSent              = "OTP sent successfully"
	msgGenerateFailed    = "Failed to generate OTP"
	msgNotFound          = "No valid OTP found for this phone number"
	msgExpired           = "OTP has expired. Please request a new one."
	msgLocked            = "Too many failed attempts. Please request a new OTP."
	msgInvalid           = "Invalid OTP"
	msgRateLimited       = "Too many OTP requests. Please try again later."
	msgInternal          = "Internal server error"
	msgVerifyUserFailure = "Failed to create user profile"
)

// OTPService is the subset of the OTP service used by the handler.
type OTPService interface {
	Issue(ctx context.Context, phone string) (*service.IssueResult, error)
	Verify(ctx context.Context, phone, code string) (*service.VerifyResult, error)
}

// Handler serves POST send-otp and verify-otp.
type Handler struct {
	svc OTPService
	log *zap.Logger
}

// NewHandler returns an OTP handler. log may be nil.
func NewHandler(svc OTPService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// SendOTP issues a code for the phone in the body.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req api.SendOTPRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		h.writeDecodeError(w, err, msgPhoneRequired)
		return
	}
	res, err := h.svc.Issue(r.Context(), req.Phone)
	if err != nil {
		h.writeIssueError(w, err)
		return
	}
	resp := api.SendOTPResponse{Success: true, Message: msgSent}
	switch {
	case res.SMSSent:
		resp.Message = msgSentSMS
	case res.DemoMode:
		resp.DebugOTP = res.Code
		resp.DemoMode = true
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// VerifyOTP checks the submitted code and returns the user and a session token.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req api.VerifyOTPRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		h.writeDecodeError(w, err, msgPhoneAndOTP)
		return
	}
	res, err := h.svc.Verify(r.Context(), req.Phone, req.OTP)
	if err != nil {
		h.writeVerifyError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, api.VerifyOTPResponse{
		Success:      true,
		User:         api.UserFromDomain(res.User, res.Addresses),
		SessionToken: res.SessionToken,
	})
}

// writeDecodeError reports field validation failures with the endpoint's own message and
// malformed bodies with the decoder's message.
func (h *Handler) writeDecodeError(w http.ResponseWriter, err error, fieldMsg string) {
	var reqErr *httpx.RequestError
	if errors.As(err, &reqErr) && len(reqErr.Fields) > 0 && !strings.HasPrefix(reqErr.Message, "unknown field") {
		httpx.WriteError(w, http.StatusBadRequest, fieldMsg)
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, err.Error())
}

func (h *Handler) writeIssueError(w http.ResponseWriter, err error) {
	var rl *service.RateLimitedError
	var pe *service.PersistenceError
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, msgPhoneRequired)
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.RetryAfter)))
		httpx.WriteError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.As(err, &pe):
		h.log.Error("otp: issuance failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, msgGenerateFailed)
	default:
		h.log.Error("otp: issuance failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) writeVerifyError(w http.ResponseWriter, err error) {
	var invalid *service.InvalidCodeError
	var pe *service.PersistenceError
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, msgPhoneAndOTP)
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusBadRequest, msgNotFound)
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusBadRequest, msgExpired)
	case errors.Is(err, service.ErrLocked):
		httpx.WriteError(w, http.StatusBadRequest, msgLocked)
	case errors.As(err, &invalid):
		left := invalid.AttemptsLeft
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{Error: msgInvalid, AttemptsLeft: &left})
	case errors.As(err, &pe) && pe.Op == service.OpCreateUser:
		h.log.Error("otp: verification failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, msgVerifyUserFailure)
	default:
		h.log.Error("otp: verification failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
