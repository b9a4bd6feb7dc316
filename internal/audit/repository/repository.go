package repository

import (
	"context"

	"github.com/karan399/milkman/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	// ListByUser returns the user's audit logs, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
}
