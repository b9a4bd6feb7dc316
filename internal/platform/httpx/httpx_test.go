package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type sampleRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Pincode string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

func decodeBody(t *testing.T, body string) (sampleRequest, error) {
	t.Helper()
	var dst sampleRequest
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := Decode(httptest.NewRecorder(), req, &dst)
	return dst, err
}

func TestDecode_Valid(t *testing.T) {
	got, err := decodeBody(t, `{"name":"Asha","email":"a@example.com","pincode":"400001"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Name != "Asha" || got.Pincode != "400001" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecode_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", ``, "request body is required"},
		{"malformed", `{"name":`, "request body is not valid JSON"},
		{"unknown field", `{"name":"a","role":"admin"}`, `unknown field "role"`},
		{"wrong type", `{"name":7}`, `field "name" has the wrong type`},
		{"trailing object", `{"name":"a"}{"name":"b"}`, "request body must contain a single JSON object"},
		{"missing required", `{"email":"a@example.com"}`, "invalid field(s): name"},
		{"bad email", `{"name":"a","email":"nope"}`, "invalid field(s): email"},
		{"bad pincode", `{"name":"a","pincode":"4000"}`, "invalid field(s): pincode"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeBody(t, tc.body)
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("err = %v, want *RequestError", err)
			}
			if reqErr.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", reqErr.Message, tc.wantMsg)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	big := `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	_, err := decodeBody(t, big)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "request body too large" {
		t.Errorf("err = %v, want body too large", err)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "Invalid OTP")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Invalid OTP" {
		t.Errorf("error = %v", body["error"])
	}
	if _, ok := body["attemptsLeft"]; ok {
		t.Error("attemptsLeft should be omitted")
	}
}

func TestBearerToken(t *testing.T) {
	testCases := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"":             "",
		"Bearer":       "",
	}
	for header, want := range testCases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := BearerToken(r); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
