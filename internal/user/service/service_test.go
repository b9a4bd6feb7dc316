package service

import (
	"context"
	"errors"
	"testing"
	"time"

	addressdomain "github.com/karan399/milkman/internal/address/domain"
	addressrepo "github.com/karan399/milkman/internal/address/repository"
	"github.com/karan399/milkman/internal/audit"
	auditrepo "github.com/karan399/milkman/internal/audit/repository"
	"github.com/karan399/milkman/internal/user/domain"
	userrepo "github.com/karan399/milkman/internal/user/repository"
)

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, users *userrepo.MemoryRepository) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u, _, err := users.GetOrCreateByPhone(context.Background(), &domain.User{ID: "user-1", Phone: "9876543210", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestProfile(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	addresses := addressrepo.NewMemoryRepository()
	svc := NewService(users, addresses, nil)
	seedUser(t, users)

	u, list, err := svc.Profile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if u.Phone != "9876543210" || list == nil || len(list) != 0 {
		t.Errorf("user = %+v addresses = %v", u, list)
	}

	_ = addresses.Create(context.Background(), &addressdomain.Address{ID: "a1", UserID: "user-1", Type: addressdomain.TypeHome, Name: "Home", Line: "x", City: "y", State: "z", Pincode: "400001"})
	_, list, _ = svc.Profile(context.Background(), "user-1")
	if len(list) != 1 {
		t.Errorf("addresses = %d, want 1", len(list))
	}

	if _, _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	users := userrepo.NewMemoryRepository()
	audits := auditrepo.NewMemoryRepository()
	svc := NewService(users, addressrepo.NewMemoryRepository(), audit.NewLogger(audits, nil, nil))
	seedUser(t, users)

	u, err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{Name: strPtr(" Asha "), Email: strPtr("Asha@Example.COM")})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Name == nil || *u.Name != "Asha" || u.Email == nil || *u.Email != "asha@example.com" {
		t.Errorf("user = %+v", u)
	}
	stored, _ := users.GetByID(context.Background(), "user-1")
	if stored.Name == nil || *stored.Name != "Asha" {
		t.Error("update not persisted")
	}

	u, err = svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{Email: strPtr("")})
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != nil || u.Name == nil {
		t.Errorf("clearing email: user = %+v", u)
	}
	if got := audits.Actions(); len(got) != 2 {
		t.Errorf("audit actions = %v, want 2 profile updates", got)
	}

	if _, err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{}); err != nil {
		t.Errorf("empty update: %v", err)
	}
	if got := audits.Actions(); len(got) != 2 {
		t.Error("empty update must not be audited")
	}
	if _, err := svc.UpdateProfile(context.Background(), "missing", domain.ProfileUpdate{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
