package repository

import (
	"context"

	"github.com/karan399/milkman/internal/address/domain"
)

// Repository defines persistence for addresses. Every lookup is scoped to the owning user,
// so a foreign address id behaves like a missing one.
type Repository interface {
	// ListByUser returns the user's addresses, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Address, error)
	// Get returns the address, or nil when it does not exist or belongs to another user.
	Get(ctx context.Context, userID, id string) (*domain.Address, error)
	// Create inserts a. When a.IsDefault is set, the user's other addresses lose the flag in the same transaction.
	Create(ctx context.Context, a *domain.Address) error
	// Update stores a; default handling as in Create. Returns false when the address is not the user's.
	Update(ctx context.Context, a *domain.Address) (bool, error)
	// Delete removes the address. Returns false when it is not the user's.
	Delete(ctx context.Context, userID, id string) (bool, error)
	// SetDefault makes id the user's only default address. Returns false when it is not the user's.
	SetDefault(ctx context.Context, userID, id string) (bool, error)
}
