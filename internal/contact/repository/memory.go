package repository

import (
	"context"
	"sync"

	"github.com/karan399/milkman/internal/contact/domain"
)

// MemoryRepository implements Repository in process memory.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []domain.Message
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory contact repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

// Messages returns the stored messages in insertion order.
func (r *MemoryRepository) Messages() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Message(nil), r.messages...)
}
