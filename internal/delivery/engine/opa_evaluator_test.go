package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOPAEvaluator_DefaultPolicy(t *testing.T) {
	e, err := NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	testCases := []struct {
		pincode string
		want    bool
	}{
		{"400001", true},
		{"400032", true},
		{"400033", false},
		{"110008", true},
		{"110009", false},
		{"560001", true},
		{"600001", false},
		{"", false},
	}
	for _, tc := range testCases {
		got, err := e.Available(context.Background(), tc.pincode)
		if err != nil {
			t.Fatalf("Available(%q): %v", tc.pincode, err)
		}
		if got != tc.want {
			t.Errorf("Available(%q) = %v, want %v", tc.pincode, got, tc.want)
		}
	}
}

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	e, err := NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_CustomPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "delivery.rego")
	policy := `package mithai.delivery

default available := false

available if startswith(input.pincode, "41")
`
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := NewOPAEvaluatorFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("NewOPAEvaluatorFromFile: %v", err)
	}
	if ok, _ := e.Available(context.Background(), "411001"); !ok {
		t.Error("411001 should be available under the custom policy")
	}
	if ok, _ := e.Available(context.Background(), "400001"); ok {
		t.Error("400001 should not be available under the custom policy")
	}
}

func TestOPAEvaluator_Errors(t *testing.T) {
	if _, err := NewOPAEvaluator(context.Background(), "package mithai.delivery\n\navailable if {"); err == nil {
		t.Error("invalid Rego should fail to compile")
	}
	if _, err := NewOPAEvaluatorFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.rego")); err == nil {
		t.Error("missing file should fail")
	}

	// A policy that defines the rule with a non-boolean value.
	e, err := NewOPAEvaluator(context.Background(), "package mithai.delivery\n\navailable := \"yes\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Available(context.Background(), "400001"); err == nil {
		t.Error("non-boolean result should be an error")
	}

	// A policy without the rule yields no result.
	e, err = NewOPAEvaluator(context.Background(), "package mithai.delivery\n\nother := true\n")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Available(context.Background(), "400001"); err == nil {
		t.Error("undefined rule should be an error")
	}
}
