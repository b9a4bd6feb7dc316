// Package service manages the delivery addresses of the signed-in user.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/audit"
	auditdomain "github.com/karan399/milkman/internal/audit/domain"
)

// ErrNotFound is returned for an address that does not exist or belongs to another user.
var ErrNotFound = errors.New("address not found")

// ValidationError reports an address that failed domain validation. Message is safe for clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Repo is the address repository used by the service.
type Repo interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.Address, error)
	Get(ctx context.Context, userID, id string) (*domain.Address, error)
	Create(ctx context.Context, a *domain.Address) error
	Update(ctx context.Context, a *domain.Address) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	SetDefault(ctx context.Context, userID, id string) (bool, error)
}

// Service implements address CRUD scoped to one user.
type Service struct {
	repo  Repo
	audit audit.AuditLogger
	now   func() time.Time
}

// NewService returns an address service. auditLogger may be nil.
func NewService(repo Repo, auditLogger audit.AuditLogger) *Service {
	return &Service{repo: repo, audit: auditLogger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the user's addresses, newest first (never nil).
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Address, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	if list == nil {
		list = []*domain.Address{}
	}
	return list, nil
}

// Create validates and stores a new address for userID. ID, UserID and CreatedAt are assigned here.
func (s *Service) Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error) {
	a.ID = uuid.New().String()
	a.UserID = userID
	a.CreatedAt = s.now()
	if err := a.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	s.logAudit(ctx, userID, auditdomain.ActionAddressCreated, a.ID)
	return &a, nil
}

// Update applies p to the user's address id.
func (s *Service) Update(ctx context.Context, userID, id string, p domain.Patch) (*domain.Address, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	cur, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if cur == nil {
		return nil, ErrNotFound
	}
	p.Apply(cur)
	if err := cur.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	ok, err := s.repo.Update(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.logAudit(ctx, userID, auditdomain.ActionAddressUpdated, id)
	return cur, nil
}

// Delete removes the user's address id.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	s.logAudit(ctx, userID, auditdomain.ActionAddressDeleted, id)
	return nil
}

// SetDefault makes id the user's only default address and returns the updated list.
func (s *Service) SetDefault(ctx context.Context, userID, id string) ([]*domain.Address, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	ok, err := s.repo.SetDefault(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("set default address: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.logAudit(ctx, userID, auditdomain.ActionAddressUpdated, id)
	return s.List(ctx, userID)
}

// validID reports whether id can name a stored address. Ids are UUIDs; anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) logAudit(ctx context.Context, userID, action, addressID string) {
	if s.audit == nil {
		return
	}
	meta, _ := json.Marshal(map[string]string{"address_id": addressID})
	s.audit.LogEvent(ctx, userID, action, auditdomain.ResourceAddress, string(meta))
}
