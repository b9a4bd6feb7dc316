package repository

import (
	"context"
	"time"

	"github.com/karan399/milkman/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetByTokenHash returns the session for a token hash, revoked or not, or nil if none.
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// Revoke sets revoked_at on the session if it is not already revoked.
	Revoke(ctx context.Context, id string, at time.Time) error
}
