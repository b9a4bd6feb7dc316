package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/delivery/engine"
)

type failingEvaluator struct{}

func (failingEvaluator) Available(ctx context.Context, pincode string) (bool, error) {
	return true, errors.New("policy broken")
}

func check(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Check(rec, httptest.NewRequest(http.MethodPost, "/delivery/check", bytes.NewBufferString(body)))
	return rec
}

func TestCheck(t *testing.T) {
	e, err := engine.NewOPAEvaluator(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(e, nil, nil)

	for pincode, want := range map[string]bool{"400001": true, "110005": true, "700001": false} {
		rec := check(t, h, `{"pincode":"`+pincode+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp api.DeliveryCheckResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Pincode != pincode || resp.Available != want {
			t.Errorf("response = %+v, want available=%v", resp, want)
		}
	}
}

func TestCheck_InvalidPincode(t *testing.T) {
	h := NewHandler(failingEvaluator{}, nil, nil)
	for _, body := range []string{`{}`, `{"pincode":"4000"}`, `{"pincode":"40000a"}`} {
		if rec := check(t, h, body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %s status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCheck_EvaluationFailureIsNotAvailable(t *testing.T) {
	rec := check(t, NewHandler(failingEvaluator{}, nil, nil), `{"pincode":"400001"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp api.DeliveryCheckResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Available {
		t.Error("evaluation failure must report not available")
	}
}
