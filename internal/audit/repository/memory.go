package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/karan399/milkman/internal/audit/domain"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory audit repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditLog
	for i := range r.entries {
		if r.entries[i].UserID == userID {
			e := r.entries[i]
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Actions returns the recorded actions in insertion order.
func (r *MemoryRepository) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}
