package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	addressdomain "github.com/karan399/milkman/internal/address/domain"
	auditdomain "github.com/karan399/milkman/internal/audit/domain"
	"github.com/karan399/milkman/internal/otp"
	"github.com/karan399/milkman/internal/otp/domain"
	otprepo "github.com/karan399/milkman/internal/otp/repository"
	"github.com/karan399/milkman/internal/security"
	sessiondomain "github.com/karan399/milkman/internal/session/domain"
	"github.com/karan399/milkman/internal/telemetry"
	userdomain "github.com/karan399/milkman/internal/user/domain"
)

// VerifyResult is the outcome of a successful verification.
type VerifyResult struct {
	User      *userdomain.User
	Addresses []*addressdomain.Address // never nil
	// Created is true when this verification provisioned the account.
	Created      bool
	SessionToken string
	SessionID    string
}

// Verify checks code against the newest unverified record for phone. A call either counts one failed
// attempt or marks the record verified, never both. On success the user is looked up or created and a
// session is issued.
func (s *Service) Verify(ctx context.Context, rawPhone, code string) (*VerifyResult, error) {
	if strings.TrimSpace(rawPhone) == "" || code == "" {
		return nil, &ValidationError{Message: "Phone number and OTP are required"}
	}
	if s.otps == nil || s.users == nil || s.sessions == nil {
		return nil, ErrConfiguration
	}
	phone := otp.NormalizePhone(rawPhone)
	now := s.now()

	var rejected error
	rec, err := s.otps.Resolve(ctx, phone, func(r domain.Record) otprepo.Outcome {
		rejected = nil
		switch r.State(now) {
		case domain.StateExpired:
			rejected = ErrExpired
			return otprepo.OutcomeUnchanged
		case domain.StateLocked:
			rejected = ErrLocked
			return otprepo.OutcomeUnchanged
		}
		if otp.CodeEqual(code, r.CodeHash) {
			return otprepo.OutcomeVerified
		}
		return otprepo.OutcomeFailed
	})
	if err != nil {
		return nil, &PersistenceError{Op: OpResolveOTP, Err: err}
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rejected != nil {
		return nil, rejected
	}
	if !rec.Verified {
		s.logAudit(ctx, "", auditdomain.ActionOTPFailed, auditdomain.ResourceOTP, phone)
		s.emit(telemetry.EventOTPFailed, "", phone, nil)
		return nil, &InvalidCodeError{AttemptsLeft: rec.AttemptsLeft()}
	}

	user, created, err := s.users.GetOrCreateByPhone(ctx, &userdomain.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, &PersistenceError{Op: OpCreateUser, Err: err}
	}

	addresses := []*addressdomain.Address{}
	if s.addresses != nil {
		list, err := s.addresses.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, &PersistenceError{Op: OpListAddresses, Err: err}
		}
		if list != nil {
			addresses = list
		}
	}

	token, err := security.EncodeSessionToken(security.SessionClaims{
		UserID:    user.ID,
		Phone:     user.Phone,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Phone:     user.Phone,
		TokenHash: security.HashSessionToken(token),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, &PersistenceError{Op: OpCreateSession, Err: err}
	}

	if created {
		s.logAudit(ctx, user.ID, auditdomain.ActionUserCreated, auditdomain.ResourceUser, phone)
	}
	s.logAudit(ctx, user.ID, auditdomain.ActionOTPVerified, auditdomain.ResourceOTP, phone)
	s.emit(telemetry.EventOTPVerified, user.ID, phone, nil)

	return &VerifyResult{
		User:         user,
		Addresses:    addresses,
		Created:      created,
		SessionToken: token,
		SessionID:    sess.ID,
	}, nil
}
