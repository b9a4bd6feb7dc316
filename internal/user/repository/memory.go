package repository

import (
	"context"
	"sync"

	"github.com/karan399/milkman/internal/user/domain"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byPhone map[string]string
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.User), byPhone: make(map[string]string)}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.byID[r.byPhone[phone]]), nil
}

func (r *MemoryRepository) GetOrCreateByPhone(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byPhone[u.Phone]; ok {
		return clone(r.byID[id]), false, nil
	}
	r.byID[u.ID] = clone(u)
	r.byPhone[u.Phone] = u.ID
	return clone(u), true, nil
}

func (r *MemoryRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return nil
	}
	cur.Name, cur.Email, cur.UpdatedAt = copyStr(u.Name), copyStr(u.Email), u.UpdatedAt
	return nil
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Name, c.Email = copyStr(u.Name), copyStr(u.Email)
	return &c
}

func copyStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
