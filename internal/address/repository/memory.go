package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/karan399/milkman/internal/address/domain"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*domain.Address
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory address repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.Address)}
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Address, 0)
	for _, a := range r.byID {
		if a.UserID == userID {
			out = append(out, clone(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok && a.UserID == userID {
		return clone(a), nil
	}
	return nil, nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.IsDefault {
		r.clearDefaultLocked(a.UserID)
	}
	r.byID[a.ID] = clone(a)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, a *domain.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[a.ID]
	if !ok || cur.UserID != a.UserID {
		return false, nil
	}
	if a.IsDefault {
		r.clearDefaultLocked(a.UserID)
	}
	updated := clone(a)
	updated.CreatedAt = cur.CreatedAt
	r.byID[a.ID] = updated
	return true, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok && a.UserID == userID {
		delete(r.byID, id)
		return true, nil
	}
	return false, nil
}

func (r *MemoryRepository) SetDefault(ctx context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.byID[id]
	if !ok || target.UserID != userID {
		return false, nil
	}
	r.clearDefaultLocked(userID)
	target.IsDefault = true
	return true, nil
}

func (r *MemoryRepository) clearDefaultLocked(userID string) {
	for _, a := range r.byID {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
}

func clone(a *domain.Address) *domain.Address {
	c := *a
	if a.Landmark != nil {
		l := *a.Landmark
		c.Landmark = &l
	}
	if a.Coordinates != nil {
		co := *a.Coordinates
		c.Coordinates = &co
	}
	return &c
}
