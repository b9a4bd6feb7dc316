package repository

import (
	"context"
	"testing"
	"time"

	"github.com/karan399/milkman/internal/session/domain"
)

func TestMemoryRepository_CreateGetRevoke(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := repo.Create(ctx, &domain.Session{ID: "s1", UserID: "u1", TokenHash: "h1", CreatedAt: now}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s, err := repo.GetByTokenHash(ctx, "h1")
	if err != nil || s == nil || !s.Active() {
		t.Fatalf("GetByTokenHash = %+v, %v; want active s1", s, err)
	}
	if missing, _ := repo.GetByTokenHash(ctx, "nope"); missing != nil {
		t.Errorf("unknown hash = %+v, want nil", missing)
	}

	first := now.Add(time.Minute)
	_ = repo.Revoke(ctx, "s1", first)
	_ = repo.Revoke(ctx, "s1", first.Add(time.Hour))
	s, _ = repo.GetByTokenHash(ctx, "h1")
	if s.Active() {
		t.Fatal("session should be revoked")
	}
	if !s.RevokedAt.Equal(first) {
		t.Errorf("RevokedAt = %v, want first revocation %v", s.RevokedAt, first)
	}
}

func TestSession_ActiveNil(t *testing.T) {
	var s *domain.Session
	if s.Active() {
		t.Error("nil session must not be active")
	}
}
