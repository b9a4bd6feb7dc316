package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karan399/milkman/internal/server/middleware"
	"github.com/karan399/milkman/internal/session/domain"
	sessionservice "github.com/karan399/milkman/internal/session/service"
)

type fakeLogout struct {
	got *domain.Session
	err error
}

func (f *fakeLogout) Logout(ctx context.Context, sess *domain.Session) error {
	f.got = sess
	if sess == nil {
		return sessionservice.ErrUnauthenticated
	}
	return f.err
}

func TestLogout(t *testing.T) {
	sess := &domain.Session{ID: "s1", UserID: "u1"}
	testCases := []struct {
		name string
		sess *domain.Session
		err  error
		want int
	}{
		{"ok", sess, nil, http.StatusOK},
		{"no session", nil, nil, http.StatusUnauthorized},
		{"store failure", sess, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeLogout{err: tc.err}
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			if tc.sess != nil {
				req = req.WithContext(middleware.WithSession(req.Context(), tc.sess))
			}
			rec := httptest.NewRecorder()
			NewHandler(svc, nil).Logout(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.sess != nil && svc.got != tc.sess {
				t.Error("session from context not passed to service")
			}
		})
	}
}
