package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStorage(path)

	if _, ok, err := fs.Get(UserKey); err != nil || ok {
		t.Fatalf("Get on missing file = %v, %v", ok, err)
	}
	if err := fs.Set(UserKey, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := fs.Set(SessionKey, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened := NewFileStorage(path)
	if v, ok, err := reopened.Get(SessionKey); err != nil || !ok || v != "tok" {
		t.Errorf("Get(session) = %q, %v, %v", v, ok, err)
	}

	if err := reopened.Delete(UserKey, SessionKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := fs.Get(UserKey); ok {
		t.Error("user key should be gone")
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStorage(path).Get(UserKey); err == nil {
		t.Error("expected decode error")
	}
}
