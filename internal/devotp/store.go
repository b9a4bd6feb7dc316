// Package devotp keeps plain demo-mode OTP codes by phone so a developer can read them back
// (GET /dev/otp/{phone}). Never wired when APP_ENV=production.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds the latest plain code per phone for dev-only retrieval.
type Store interface {
	// Put stores code for phone until expiresAt, replacing any earlier code.
	Put(ctx context.Context, phone, code string, expiresAt time.Time)
	// Get returns the code for phone if present and not expired.
	Get(ctx context.Context, phone string) (code string, ok bool)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the time source used for expiry checks. Nil keeps the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.nowF = now
		}
	}
}

// NewMemoryStore returns a new in-memory dev OTP store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores code for phone until expiresAt.
func (s *MemoryStore) Put(ctx context.Context, phone, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[phone] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for phone if present and not expired. Expired entries are dropped.
func (s *MemoryStore) Get(ctx context.Context, phone string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[phone]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		if cur, still := s.m[phone]; still && cur == e {
			delete(s.m, phone)
		}
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
