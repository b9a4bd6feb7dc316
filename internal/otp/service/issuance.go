package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	auditdomain "github.com/karan399/milkman/internal/audit/domain"
	"github.com/karan399/milkman/internal/logging"
	"github.com/karan399/milkman/internal/otp"
	"github.com/karan399/milkman/internal/otp/domain"
	"github.com/karan399/milkman/internal/telemetry"
)

// IssueResult is the outcome of a successful issuance.
type IssueResult struct {
	Phone     string // normalized
	ExpiresAt time.Time
	// SMSSent is true when the SMS gateway accepted the message.
	SMSSent bool
	// DemoMode is true when no SMS gateway is configured; Code then holds the plain code.
	DemoMode bool
	Code     string
}

// Issue creates a fresh code for phone, replacing every earlier record for that phone, and delivers it.
// SMS delivery failures are logged and do not fail the call.
func (s *Service) Issue(ctx context.Context, rawPhone string) (*IssueResult, error) {
	if s.otps == nil {
		return nil, ErrConfiguration
	}
	phone := otp.NormalizePhone(rawPhone)
	if !otp.ValidPhone(phone) {
		return nil, &ValidationError{Message: "Valid phone number is required"}
	}

	if s.limiter != nil {
		wait, err := s.limiter.Allow(ctx, phone)
		switch {
		case err != nil:
			s.log.Warn("otp: rate limiter unavailable, allowing request", zap.String("phone", logging.MaskPhone(phone)), zap.Error(err))
		case wait > 0:
			s.emit(telemetry.EventOTPRateLimited, "", phone, map[string]string{"retry_after_s": strconv.Itoa(int(wait.Round(time.Second).Seconds()))})
			return nil, &RateLimitedError{RetryAfter: wait}
		}
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("otp: generate code: %w", err)
	}
	now := s.now()
	rec := &domain.Record{
		ID:        uuid.New().String(),
		Phone:     phone,
		CodeHash:  otp.HashCode(code),
		ExpiresAt: now.Add(domain.DefaultTTL),
		CreatedAt: now,
	}
	if err := s.otps.Replace(ctx, rec); err != nil {
		return nil, &PersistenceError{Op: OpStoreOTP, Err: err}
	}

	res := &IssueResult{Phone: phone, ExpiresAt: rec.ExpiresAt}
	if s.sender != nil {
		if err := s.sender.SendOTP(ctx, otp.E164(phone), code); err != nil {
			s.log.Warn("otp: sms delivery failed", zap.String("phone", logging.MaskPhone(phone)), zap.Error(err))
		} else {
			res.SMSSent = true
		}
	} else {
		res.DemoMode = true
		res.Code = code
		if s.devStore != nil {
			s.devStore.Put(ctx, phone, code, rec.ExpiresAt)
		}
		s.log.Debug("otp: demo mode code issued", zap.String("phone", logging.MaskPhone(phone)), zap.String("code", code))
	}

	s.logAudit(ctx, "", auditdomain.ActionOTPRequested, auditdomain.ResourceOTP, phone)
	s.emit(telemetry.EventOTPRequested, "", phone, map[string]string{"sms_sent": strconv.FormatBool(res.SMSSent), "demo_mode": strconv.FormatBool(res.DemoMode)})
	return res, nil
}
