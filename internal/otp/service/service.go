// Package service implements OTP issuance and verification: the phone login handshake of the storefront.
package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	addressdomain "github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/audit"
	"github.com/karan399/milkman/internal/devotp"
	"github.com/karan399/milkman/internal/logging"
	otprepo "github.com/karan399/milkman/internal/otp/repository"
	"github.com/karan399/milkman/internal/otp/sms"
	sessiondomain "github.com/karan399/milkman/internal/session/domain"
	"github.com/karan399/milkman/internal/telemetry"
	userdomain "github.com/karan399/milkman/internal/user/domain"
)

// UserRepo is the minimal user repository needed by verification.
type UserRepo interface {
	GetOrCreateByPhone(ctx context.Context, u *userdomain.User) (*userdomain.User, bool, error)
}

// AddressRepo is the minimal address repository needed by verification.
type AddressRepo interface {
	ListByUser(ctx context.Context, userID string) ([]*addressdomain.Address, error)
}

// SessionRepo is the minimal session repository needed by verification.
type SessionRepo interface {
	Create(ctx context.Context, s *sessiondomain.Session) error
}

// Limiter bounds issuance per phone. Allow returns how long to wait, or 0 to proceed.
type Limiter interface {
	Allow(ctx context.Context, phone string) (time.Duration, error)
}

// Options carries the optional collaborators of the service. The zero value is valid:
// no SMS sender (demo mode), no limiter, no dev store, no audit, no telemetry.
type Options struct {
	// Sender delivers codes by SMS. Nil means demo mode: codes are returned to the caller.
	Sender sms.Sender
	// Limiter is consulted before every issuance. Failures of the limiter itself let the request through.
	Limiter Limiter
	// DevStore receives demo-mode codes for GET /dev/otp/{phone}. Must be nil in production.
	DevStore devotp.Store
	Audit    audit.AuditLogger
	Emitter  telemetry.EventEmitter
	Logger   *zap.Logger
	// Now overrides the clock; defaults to time.Now().UTC().
	Now func() time.Time
}

// Service issues and verifies OTP codes.
type Service struct {
	otps      otprepo.Repository
	users     UserRepo
	addresses AddressRepo
	sessions  SessionRepo

	sender   sms.Sender
	limiter  Limiter
	devStore devotp.Store
	audit    audit.AuditLogger
	emitter  telemetry.EventEmitter
	log      *zap.Logger
	now      func() time.Time
}

// NewService returns a Service over the given repositories.
func NewService(otps otprepo.Repository, users UserRepo, addresses AddressRepo, sessions SessionRepo, opts Options) *Service {
	s := &Service{
		otps:      otps,
		users:     users,
		addresses: addresses,
		sessions:  sessions,
		sender:    opts.Sender,
		limiter:   opts.Limiter,
		devStore:  opts.DevStore,
		audit:     opts.Audit,
		emitter:   opts.Emitter,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// DemoMode reports whether issued codes are returned to the caller instead of sent by SMS.
func (s *Service) DemoMode() bool {
	return s.sender == nil
}

func (s *Service) logAudit(ctx context.Context, userID, action, resource, phone string) {
	if s.audit == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{"phone": logging.MaskPhone(phone)})
	s.audit.LogEvent(ctx, userID, action, resource, string(meta))
}

func (s *Service) emit(eventType, userID, phone string, extra map[string]string) {
	if s.emitter == nil {
		return
	}
	meta := map[string]string{"phone": logging.MaskPhone(phone)}
	for k, v := range extra {
		meta[k] = v
	}
	telemetry.EmitAsync(s.emitter, s.log, telemetry.NewEvent(eventType, userID, meta))
}
