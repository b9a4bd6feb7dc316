package repository

import (
	"context"
	"testing"
	"time"

	"github.com/karan399/milkman/internal/address/domain"
)

func addr(id, user string, created time.Time, isDefault bool) *domain.Address {
	return &domain.Address{
		ID: id, UserID: user, Type: domain.TypeHome, Name: id, Line: "line", City: "Mumbai",
		State: "MH", Pincode: "400001", IsDefault: isDefault, CreatedAt: created,
	}
}

func defaults(t *testing.T, repo *MemoryRepository, user string) []string {
	t.Helper()
	list, err := repo.ListByUser(context.Background(), user)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	var ids []string
	for _, a := range list {
		if a.IsDefault {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func TestMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()
	_ = repo.Create(ctx, addr("a", "u1", now.Add(-2*time.Hour), false))
	_ = repo.Create(ctx, addr("b", "u1", now, false))
	_ = repo.Create(ctx, addr("c", "u1", now.Add(-time.Hour), false))
	_ = repo.Create(ctx, addr("x", "u2", now, false))

	list, _ := repo.ListByUser(ctx, "u1")
	if len(list) != 3 || list[0].ID != "b" || list[1].ID != "c" || list[2].ID != "a" {
		ids := []string{}
		for _, a := range list {
			ids = append(ids, a.ID)
		}
		t.Errorf("order = %v, want [b c a]", ids)
	}
}

func TestMemoryRepository_DefaultIsExclusive(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	now := time.Now().UTC()
	_ = repo.Create(ctx, addr("a", "u1", now, true))
	_ = repo.Create(ctx, addr("b", "u1", now.Add(time.Second), true))
	_ = repo.Create(ctx, addr("other", "u2", now, true))

	if got := defaults(t, repo, "u1"); len(got) != 1 || got[0] != "b" {
		t.Errorf("defaults after create = %v, want [b]", got)
	}
	if ok, _ := repo.SetDefault(ctx, "u1", "a"); !ok {
		t.Fatal("SetDefault(a) should succeed")
	}
	if got := defaults(t, repo, "u1"); len(got) != 1 || got[0] != "a" {
		t.Errorf("defaults after SetDefault = %v, want [a]", got)
	}
	if got := defaults(t, repo, "u2"); len(got) != 1 {
		t.Errorf("other user's default was touched: %v", got)
	}

	b, _ := repo.Get(ctx, "u1", "b")
	b.IsDefault = true
	if ok, _ := repo.Update(ctx, b); !ok {
		t.Fatal("Update(b) should succeed")
	}
	if got := defaults(t, repo, "u1"); len(got) != 1 || got[0] != "b" {
		t.Errorf("defaults after update = %v, want [b]", got)
	}
}

func TestMemoryRepository_ForeignAddressIsInvisible(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	_ = repo.Create(ctx, addr("a", "u1", time.Now(), true))

	if got, _ := repo.Get(ctx, "u2", "a"); got != nil {
		t.Error("Get should hide another user's address")
	}
	if ok, _ := repo.Update(ctx, addr("a", "u2", time.Now(), false)); ok {
		t.Error("Update should refuse another user's address")
	}
	if ok, _ := repo.SetDefault(ctx, "u2", "a"); ok {
		t.Error("SetDefault should refuse another user's address")
	}
	if ok, _ := repo.Delete(ctx, "u2", "a"); ok {
		t.Error("Delete should refuse another user's address")
	}
	if ok, _ := repo.Delete(ctx, "u1", "a"); !ok {
		t.Error("owner Delete should succeed")
	}
}
