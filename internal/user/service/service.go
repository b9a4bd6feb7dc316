// Package service reads and updates the profile of the signed-in user.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	addressdomain "github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/audit"
	auditdomain "github.com/karan399/milkman/internal/audit/domain"
	"github.com/karan399/milkman/internal/user/domain"
)

// ErrNotFound is returned when the session's user no longer exists.
var ErrNotFound = errors.New("user not found")

// UserRepo is the minimal user repository needed by the service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, u *domain.User) error
}

// AddressLister lists a user's addresses.
type AddressLister interface {
	ListByUser(ctx context.Context, userID string) ([]*addressdomain.Address, error)
}

// Service serves GET and PATCH /me.
type Service struct {
	users     UserRepo
	addresses AddressLister
	audit     audit.AuditLogger
	now       func() time.Time
}

// NewService returns a profile service. auditLogger may be nil.
func NewService(users UserRepo, addresses AddressLister, auditLogger audit.AuditLogger) *Service {
	return &Service{
		users:     users,
		addresses: addresses,
		audit:     auditLogger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Profile returns the user with their addresses (newest first, never nil).
func (s *Service) Profile(ctx context.Context, userID string) (*domain.User, []*addressdomain.Address, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, nil, ErrNotFound
	}
	list, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list addresses: %w", err)
	}
	if list == nil {
		list = []*addressdomain.Address{}
	}
	return u, list, nil
}

// UpdateProfile applies upd to the user. An update with no fields returns the user unchanged.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !upd.Apply(u, s.now()) {
		return u, nil
	}
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if s.audit != nil {
		fields := make([]string, 0, 2)
		if upd.Name != nil {
			fields = append(fields, "name")
		}
		if upd.Email != nil {
			fields = append(fields, "email")
		}
		meta, _ := json.Marshal(map[string][]string{"fields": fields})
		s.audit.LogEvent(ctx, u.ID, auditdomain.ActionProfileUpdated, auditdomain.ResourceUser, string(meta))
	}
	return u, nil
}
