// Package httpx holds the JSON request/response helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes limits request bodies accepted by Decode.
const MaxBodyBytes = 64 << 10

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the error payload returned by every endpoint.
type ErrorResponse struct {
	Error        string `json:"error"`
	AttemptsLeft *int   `json:"attemptsLeft,omitempty"`
}

// RequestError is returned by Decode when the body is malformed or fails validation.
// Message is safe to return to the client.
type RequestError struct {
	Message string
	Fields  []string
}

func (e *RequestError) Error() string { return e.Message }

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status code.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// Decode reads exactly one JSON object from the request body into dst and validates its struct tags.
// Unknown fields, trailing data and bodies over MaxBodyBytes are rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &RequestError{Message: "request body must contain a single JSON object"}
	}
	return Validate(dst)
}

// Validate runs struct-tag validation on v and converts failures to a *RequestError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{Message: "invalid request"}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &RequestError{
		Message: fmt.Sprintf("invalid field(s): %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return &RequestError{Message: "request body is required"}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &RequestError{Message: "request body is not valid JSON"}
	case errors.As(err, &typeErr):
		return &RequestError{Message: fmt.Sprintf("field %q has the wrong type", typeErr.Field), Fields: []string{typeErr.Field}}
	case errors.As(err, &maxErr):
		return &RequestError{Message: "request body too large"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &RequestError{Message: fmt.Sprintf("unknown field %q", field), Fields: []string{field}}
	default:
		return &RequestError{Message: "invalid request body"}
	}
}

// BearerToken returns the token from an "Authorization: Bearer <token>" header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
