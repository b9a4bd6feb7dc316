package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/address/repository"
)

func homeAddress() domain.Address {
	return domain.Address{Type: domain.TypeHome, Name: "Home", Line: "12 MG Road", City: "Mumbai", State: "MH", Pincode: "400001"}
}

func newTestService() *Service {
	svc := NewService(repository.NewMemoryRepository(), nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return svc
}

func TestCreateAndList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, "u1", homeAddress())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == "" || first.UserID != "u1" || first.CreatedAt.IsZero() {
		t.Errorf("created = %+v", first)
	}
	work := homeAddress()
	work.Type = domain.TypeWork
	work.Name = "Office"
	second, err := svc.Create(ctx, "u1", work)
	if err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("list order = %v, want newest first", list)
	}
	other, _ := svc.List(ctx, "u2")
	if other == nil || len(other) != 0 {
		t.Errorf("other user's list = %v, want empty", other)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	bad := homeAddress()
	bad.Pincode = "12"
	_, err := svc.Create(context.Background(), "u1", bad)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "pincode must be 6 digits" {
		t.Fatalf("err = %v, want pincode validation error", err)
	}
}

func TestDefaultIsExclusive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a := homeAddress()
	a.IsDefault = true
	first, _ := svc.Create(ctx, "u1", a)
	b := homeAddress()
	b.IsDefault = true
	second, _ := svc.Create(ctx, "u1", b)

	countDefaults := func(list []*domain.Address) (n int, id string) {
		for _, x := range list {
			if x.IsDefault {
				n++
				id = x.ID
			}
		}
		return
	}
	list, _ := svc.List(ctx, "u1")
	if n, id := countDefaults(list); n != 1 || id != second.ID {
		t.Errorf("defaults = %d (%s), want only %s", n, id, second.ID)
	}

	list, err := svc.SetDefault(ctx, "u1", first.ID)
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if n, id := countDefaults(list); n != 1 || id != first.ID {
		t.Errorf("defaults = %d (%s), want only %s", n, id, first.ID)
	}
}

func TestForeignAddressIsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	mine, _ := svc.Create(ctx, "owner", homeAddress())

	city := "Pune"
	if _, err := svc.Update(ctx, "intruder", mine.ID, domain.Patch{City: &city}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "intruder", mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete err = %v, want ErrNotFound", err)
	}
	if _, err := svc.SetDefault(ctx, "intruder", mine.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDefault err = %v, want ErrNotFound", err)
	}
	list, _ := svc.List(ctx, "owner")
	if len(list) != 1 || list[0].City != "Mumbai" || list[0].IsDefault {
		t.Errorf("owner's address changed: %+v", list)
	}
}

// failingRepo fails every id lookup so tests can tell whether the repository was reached.
type failingRepo struct {
	*repository.MemoryRepository
}

var errRepoReached = errors.New("repository reached")

func (failingRepo) Get(context.Context, string, string) (*domain.Address, error) {
	return nil, errRepoReached
}

func (failingRepo) Delete(context.Context, string, string) (bool, error) {
	return false, errRepoReached
}

func (failingRepo) SetDefault(context.Context, string, string) (bool, error) {
	return false, errRepoReached
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc := NewService(failingRepo{repository.NewMemoryRepository()}, nil)
	ctx := context.Background()
	city := "Pune"

	for _, id := range []string{"", "not-a-uuid", "123", "00000000-0000-0000-0000-00000000000z"} {
		if _, err := svc.Update(ctx, "u1", id, domain.Patch{City: &city}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update(%q) err = %v, want ErrNotFound", id, err)
		}
		if err := svc.Delete(ctx, "u1", id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(%q) err = %v, want ErrNotFound", id, err)
		}
		if _, err := svc.SetDefault(ctx, "u1", id); !errors.Is(err, ErrNotFound) {
			t.Errorf("SetDefault(%q) err = %v, want ErrNotFound", id, err)
		}
	}
	if err := svc.Delete(ctx, "u1", "6f1c2a34-5b6d-4e7f-8a9b-0c1d2e3f4a5b"); !errors.Is(err, errRepoReached) {
		t.Errorf("Delete with a valid id err = %v, want the repository error", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Create(ctx, "u1", homeAddress())

	city := "Bengaluru"
	pin := "560001"
	updated, err := svc.Update(ctx, "u1", a.ID, domain.Patch{City: &city, Pincode: &pin})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.City != "Bengaluru" || updated.Pincode != "560001" || updated.Name != "Home" {
		t.Errorf("updated = %+v", updated)
	}

	bad := "abc"
	if _, err := svc.Update(ctx, "u1", a.ID, domain.Patch{Pincode: &bad}); err == nil {
		t.Error("invalid pincode should fail")
	}

	if err := svc.Delete(ctx, "u1", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "u1", a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}
