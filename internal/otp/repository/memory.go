package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/karan399/milkman/internal/otp/domain"
)

// MemoryRepository implements Repository in process memory. One mutex serializes every call,
// which gives Replace and Resolve the same atomicity as the Postgres transactions.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string][]domain.Record
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty in-memory OTP repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string][]domain.Record)}
}

// Replace drops the phone's records and stores a copy of rec.
func (r *MemoryRepository) Replace(ctx context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Phone] = []domain.Record{*rec}
	return nil
}

// Resolve applies decide to the newest unverified record for phone while holding the lock.
func (r *MemoryRepository) Resolve(ctx context.Context, phone string, decide func(rec domain.Record) Outcome) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.records[phone]
	idx := -1
	for i := range list {
		if list[i].Verified {
			continue
		}
		if idx < 0 || list[i].CreatedAt.After(list[idx].CreatedAt) {
			idx = i
		}
	}
	if idx < 0 {
		return nil, nil
	}
	switch decide(list[idx]) {
	case OutcomeFailed:
		list[idx].Attempts++
	case OutcomeVerified:
		list[idx].Verified = true
	}
	out := list[idx]
	return &out, nil
}

// Records returns copies of every stored record for phone, newest first.
func (r *MemoryRepository) Records(phone string) []domain.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]domain.Record(nil), r.records[phone]...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Put stores rec without removing existing records. Tests use it to build states Replace cannot produce.
func (r *MemoryRepository) Put(rec domain.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Phone] = append(r.records[rec.Phone], rec)
}
