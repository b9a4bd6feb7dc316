package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karan399/milkman/internal/audit"
	auditrepo "github.com/karan399/milkman/internal/audit/repository"
	"github.com/karan399/milkman/internal/security"
	"github.com/karan399/milkman/internal/session/domain"
	"github.com/karan399/milkman/internal/session/repository"
)

func newSession(t *testing.T, repo *repository.MemoryRepository, userID string) (string, *domain.Session) {
	t.Helper()
	token, err := security.EncodeSessionToken(security.SessionClaims{UserID: userID, Phone: "9876543210", Timestamp: time.Now().UnixMilli()})
	if err != nil {
		t.Fatal(err)
	}
	s := &domain.Session{ID: "sess-" + userID, UserID: userID, Phone: "9876543210", TokenHash: security.HashSessionToken(token), CreatedAt: time.Now().UTC()}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	return token, s
}

func TestAuthenticate(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewService(repo, nil, nil, nil)
	token, stored := newSession(t, repo, "user-1")

	sess, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.ID != stored.ID || sess.UserID != "user-1" {
		t.Errorf("session = %+v", sess)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewService(repo, nil, nil, nil)
	_, _ = newSession(t, repo, "user-1")

	// A well-formed token that was never issued by the server.
	forged, _ := security.EncodeSessionToken(security.SessionClaims{UserID: "user-1", Phone: "9876543210", Timestamp: 1})

	for name, token := range map[string]string{
		"empty":     "",
		"malformed": "not-base64!",
		"unknown":   forged,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("err = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	repo := repository.NewMemoryRepository()
	audits := auditrepo.NewMemoryRepository()
	svc := NewService(repo, audit.NewLogger(audits, nil, nil), nil, nil)
	token, _ := newSession(t, repo, "user-1")

	sess, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(context.Background(), sess); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("revoked token err = %v, want ErrUnauthenticated", err)
	}
	if err := svc.Logout(context.Background(), sess); err != nil {
		t.Errorf("second Logout: %v", err)
	}
	if got := audits.Actions(); len(got) != 2 || got[0] != "logout" {
		t.Errorf("audit actions = %v", got)
	}
}

func TestLogout_NilSession(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository(), nil, nil, nil)
	if err := svc.Logout(context.Background(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}
