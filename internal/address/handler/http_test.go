package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/karan399/milkman/internal/address/domain"
	"github.com/karan399/milkman/internal/address/repository"
	"github.com/karan399/milkman/internal/address/service"
	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/server/middleware"
)

// newRouter mounts the handler with a fake auth middleware reading the user from X-Test-User.
func newRouter() http.Handler {
	return newRouterWithRepo(repository.NewMemoryRepository())
}

func newRouterWithRepo(repo service.Repo) http.Handler {
	h := NewHandler(service.NewService(repo, nil), nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), req.Header.Get("X-Test-User"), "s")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/me/addresses", h.List)
	r.Post("/me/addresses", h.Create)
	r.Patch("/me/addresses/{id}", h.Update)
	r.Delete("/me/addresses/{id}", h.Delete)
	r.Post("/me/addresses/{id}/default", h.SetDefault)
	return r
}

func do(t *testing.T, srv http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("X-Test-User", user)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const homeJSON = `{"type":"home","name":"Home","address":"12 MG Road","city":"Mumbai","state":"MH","pincode":"400001","isDefault":true,"coordinates":{"lat":19.07,"lng":72.87}}`

func TestAddressLifecycle(t *testing.T) {
	srv := newRouter()

	rec := do(t, srv, http.MethodPost, "/me/addresses", "u1", homeJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d body = %s", rec.Code, rec.Body.String())
	}
	var created api.Address
	_ = json.NewDecoder(rec.Body).Decode(&created)
	if created.ID == "" || !created.IsDefault || created.Coordinates == nil {
		t.Errorf("created = %+v", created)
	}

	rec = do(t, srv, http.MethodPost, "/me/addresses", "u1", `{"type":"work","name":"Office","address":"1 BKC","city":"Mumbai","state":"MH","pincode":"400051"}`)
	var work api.Address
	_ = json.NewDecoder(rec.Body).Decode(&work)

	rec = do(t, srv, http.MethodPost, "/me/addresses/"+work.ID+"/default", "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("set default status = %d", rec.Code)
	}
	var list api.AddressesResponse
	_ = json.NewDecoder(rec.Body).Decode(&list)
	defaults := 0
	for _, a := range list.Addresses {
		if a.IsDefault {
			defaults++
			if a.ID != work.ID {
				t.Errorf("default = %s, want %s", a.ID, work.ID)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}

	rec = do(t, srv, http.MethodPatch, "/me/addresses/"+created.ID, "u1", `{"landmark":"Near station"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodDelete, "/me/addresses/"+created.ID, "u1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/me/addresses", "u1", "")
	_ = json.NewDecoder(rec.Body).Decode(&list)
	if len(list.Addresses) != 1 || list.Addresses[0].ID != work.ID {
		t.Errorf("remaining = %+v", list.Addresses)
	}
}

func TestForeignAddressReturns404(t *testing.T) {
	srv := newRouter()
	rec := do(t, srv, http.MethodPost, "/me/addresses", "owner", homeJSON)
	var a api.Address
	_ = json.NewDecoder(rec.Body).Decode(&a)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/me/addresses/" + a.ID, `{"city":"Pune"}`},
		{http.MethodDelete, "/me/addresses/" + a.ID, ""},
		{http.MethodPost, "/me/addresses/" + a.ID + "/default", ""},
	} {
		if rec := do(t, srv, tc.method, tc.path, "intruder", tc.body); rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestCreate_Invalid(t *testing.T) {
	srv := newRouter()
	for name, body := range map[string]string{
		"bad pincode":   `{"type":"home","name":"H","address":"a","city":"c","state":"s","pincode":"4000"}`,
		"bad type":      `{"type":"villa","name":"H","address":"a","city":"c","state":"s","pincode":"400001"}`,
		"missing city":  `{"type":"home","name":"H","address":"a","state":"s","pincode":"400001"}`,
		"bad latitude":  `{"type":"home","name":"H","address":"a","city":"c","state":"s","pincode":"400001","coordinates":{"lat":100,"lng":0}}`,
		"blank address": `{"type":"home","name":"H","address":"  ","city":"c","state":"s","pincode":"400001"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if rec := do(t, srv, http.MethodPost, "/me/addresses", "u1", body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// uuidColumnRepo rejects ids that are not UUIDs, as a UUID column in Postgres does.
type uuidColumnRepo struct {
	*repository.MemoryRepository
}

func checkUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid input syntax for type uuid: %q (SQLSTATE 22P02)", id)
	}
	return nil
}

func (r uuidColumnRepo) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	return r.MemoryRepository.Get(ctx, userID, id)
}

func (r uuidColumnRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	if err := checkUUID(id); err != nil {
		return false, err
	}
	return r.MemoryRepository.Delete(ctx, userID, id)
}

func (r uuidColumnRepo) SetDefault(ctx context.Context, userID, id string) (bool, error) {
	if err := checkUUID(id); err != nil {
		return false, err
	}
	return r.MemoryRepository.SetDefault(ctx, userID, id)
}

func TestMalformedAddressIDReturns404(t *testing.T) {
	srv := newRouterWithRepo(uuidColumnRepo{repository.NewMemoryRepository()})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPatch, "/me/addresses/not-a-uuid", `{"city":"Pune"}`},
		{http.MethodDelete, "/me/addresses/not-a-uuid", ""},
		{http.MethodPost, "/me/addresses/123/default", ""},
	} {
		rec := do(t, srv, tc.method, tc.path, "u1", tc.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404, body = %s", tc.method, tc.path, rec.Code, rec.Body.String())
		}
	}
}
