package repository

import (
	"context"

	"github.com/karan399/milkman/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	// GetOrCreateByPhone returns the user with u.Phone, inserting u when there is none.
	// created is true when u was inserted. Concurrent first logins for one phone yield one user.
	GetOrCreateByPhone(ctx context.Context, u *domain.User) (user *domain.User, created bool, err error)
	// UpdateProfile stores Name, Email and UpdatedAt of u. Phone is immutable.
	UpdateProfile(ctx context.Context, u *domain.User) error
}
