// Package repository persists contact messages in Postgres (or in memory for local runs and tests).
package repository

import (
	"context"

	"github.com/karan399/milkman/internal/contact/domain"
)

// Repository defines persistence for contact messages.
type Repository interface {
	Create(ctx context.Context, m *domain.Message) error
}
