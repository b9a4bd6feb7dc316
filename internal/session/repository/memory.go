package repository

import (
	"context"
	"sync"
	"time"

	"github.com/karan399/milkman/internal/session/domain"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu     sync.Mutex
	byID   map[string]*domain.Session
	byHash map[string]string
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory session repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*domain.Session), byHash: make(map[string]string)}
}

func (r *MemoryRepository) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.byID[s.ID] = &c
	r.byHash[s.TokenHash] = s.ID
	return nil
}

func (r *MemoryRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[r.byHash[tokenHash]]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok && s.RevokedAt == nil {
		s.RevokedAt = &at
	}
	return nil
}
