// Package service authenticates bearer session tokens and revokes sessions on logout.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/audit"
	auditdomain "github.com/karan399/milkman/internal/audit/domain"
	"github.com/karan399/milkman/internal/security"
	"github.com/karan399/milkman/internal/session/domain"
	"github.com/karan399/milkman/internal/telemetry"
)

// ErrUnauthenticated is returned for a missing, malformed, unknown or revoked token.
var ErrUnauthenticated = errors.New("missing or invalid authorization")

// Repo is the minimal session repository needed by the service.
type Repo interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

// Service checks session tokens against the server-side session table.
type Service struct {
	repo    Repo
	audit   audit.AuditLogger
	emitter telemetry.EventEmitter
	log     *zap.Logger
}

// NewService returns a session service. auditLogger, emitter and log may be nil.
func NewService(repo Repo, auditLogger audit.AuditLogger, emitter telemetry.EventEmitter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, audit: auditLogger, emitter: emitter, log: log}
}

// Authenticate resolves token to its active session. The token must decode to claims whose
// user matches the stored session.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := security.DecodeSessionToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	sess, err := s.repo.GetByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		return nil, err
	}
	if !sess.Active() || sess.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	return sess, nil
}

// Logout revokes the session. Revoking an already revoked session is a no-op.
func (s *Service) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if err := s.repo.Revoke(ctx, sess.ID, time.Now().UTC()); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, sess.UserID, auditdomain.ActionLogout, auditdomain.ResourceSession, "")
	}
	if s.emitter != nil {
		ev := telemetry.NewEvent(telemetry.EventLogout, sess.UserID, nil)
		ev.SessionID = sess.ID
		telemetry.EmitAsync(s.emitter, s.log, ev)
	}
	return nil
}
