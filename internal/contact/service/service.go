// Package service stores contact form submissions and forwards them to the shop inbox.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/audit"
	auditdomain "github.com/karan399/milkman/internal/audit/domain"
	"github.com/karan399/milkman/internal/contact/domain"
	"github.com/karan399/milkman/internal/contact/mailer"
	"github.com/karan399/milkman/internal/contact/repository"
	"github.com/karan399/milkman/internal/telemetry"
)

// Service handles contact submissions.
type Service struct {
	repo    repository.Repository
	mailer  mailer.Mailer
	audit   audit.AuditLogger
	emitter telemetry.EventEmitter
	log     *zap.Logger
	now     func() time.Time
}

// NewService returns a contact service. mailer, auditLogger, emitter and log may be nil;
// without a mailer messages are only stored.
func NewService(repo repository.Repository, m mailer.Mailer, auditLogger audit.AuditLogger, emitter telemetry.EventEmitter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		mailer:  m,
		audit:   auditLogger,
		emitter: emitter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores the message and mails it when a mailer is configured.
// Only a storage failure is returned; mail failures are logged.
func (s *Service) Submit(ctx context.Context, name, email, message string) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Message:   strings.TrimSpace(message),
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	if s.mailer != nil {
		if err := s.mailer.SendContact(ctx, m); err != nil {
			s.log.Warn("contact: mail delivery failed", zap.String("message_id", m.ID), zap.Error(err))
		}
	} else {
		s.log.Info("contact: message stored, mail not configured", zap.String("message_id", m.ID))
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, "", auditdomain.ActionContactCreated, auditdomain.ResourceContact, `{"message_id":"`+m.ID+`"}`)
	}
	if s.emitter != nil {
		telemetry.EmitAsync(s.emitter, s.log, telemetry.NewEvent(telemetry.EventContactCreated, "", map[string]string{"message_id": m.ID}))
	}
	return m, nil
}
