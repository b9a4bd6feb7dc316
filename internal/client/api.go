// Package client is a typed Go client for the storefront HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/karan399/milkman/internal/api"
	"github.com/karan399/milkman/internal/platform/httpx"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response. Message is the server's "error" string.
type APIError struct {
	StatusCode   int
	Message      string
	AttemptsLeft *int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Option configures an API.
type Option func(*API)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

// WithHeader adds a header to every request (e.g. apikey, x-client-info).
func WithHeader(key, value string) Option {
	return func(a *API) { a.headers.Set(key, value) }
}

// API calls the storefront endpoints. The zero value is not usable; use New.
type API struct {
	baseURL string
	http    *http.Client
	headers http.Header
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SendOTP requests a code for phone.
func (a *API) SendOTP(ctx context.Context, phone string) (*api.SendOTPResponse, error) {
	var out api.SendOTPResponse
	if err := a.do(ctx, http.MethodPost, "/functions/v1/send-otp", "", api.SendOTPRequest{Phone: phone}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP exchanges phone and code for the user and a session token.
func (a *API) VerifyOTP(ctx context.Context, phone, code string) (*api.VerifyOTPResponse, error) {
	var out api.VerifyOTPResponse
	if err := a.do(ctx, http.MethodPost, "/functions/v1/verify-otp", "", api.VerifyOTPRequest{Phone: phone, OTP: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token on the server.
func (a *API) Logout(ctx context.Context, token string) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// Me returns the signed-in user with addresses.
func (a *API) Me(ctx context.Context, token string) (*api.User, error) {
	var out api.User
	if err := a.do(ctx, http.MethodGet, "/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile patches name and/or email.
func (a *API) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (*api.User, error) {
	var out api.User
	if err := a.do(ctx, http.MethodPatch, "/me", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAddresses returns the user's addresses, newest first.
func (a *API) ListAddresses(ctx context.Context, token string) ([]api.Address, error) {
	var out api.AddressesResponse
	if err := a.do(ctx, http.MethodGet, "/me/addresses", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

// CreateAddress adds an address.
func (a *API) CreateAddress(ctx context.Context, token string, req api.CreateAddressRequest) (*api.Address, error) {
	var out api.Address
	if err := a.do(ctx, http.MethodPost, "/me/addresses", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAddress patches the address id.
func (a *API) UpdateAddress(ctx context.Context, token, id string, req api.UpdateAddressRequest) (*api.Address, error) {
	var out api.Address
	if err := a.do(ctx, http.MethodPatch, "/me/addresses/"+url.PathEscape(id), token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAddress removes the address id.
func (a *API) DeleteAddress(ctx context.Context, token, id string) error {
	return a.do(ctx, http.MethodDelete, "/me/addresses/"+url.PathEscape(id), token, nil, nil)
}

// SetDefaultAddress makes id the default and returns the updated list.
func (a *API) SetDefaultAddress(ctx context.Context, token, id string) ([]api.Address, error) {
	var out api.AddressesResponse
	if err := a.do(ctx, http.MethodPost, "/me/addresses/"+url.PathEscape(id)+"/default", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

// CheckDelivery reports whether pincode is served.
func (a *API) CheckDelivery(ctx context.Context, pincode string) (bool, error) {
	var out api.DeliveryCheckResponse
	if err := a.do(ctx, http.MethodPost, "/delivery/check", "", api.DeliveryCheckRequest{Pincode: pincode}, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

// SendContact submits the contact form.
func (a *API) SendContact(ctx context.Context, req api.ContactRequest) error {
	return a.do(ctx, http.MethodPost, "/contact", "", req, nil)
}

func (a *API) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	for k, v := range a.headers {
		req.Header[k] = v
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload httpx.ErrorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, httpx.MaxBodyBytes)).Decode(&payload) == nil {
			apiErr.Message = payload.Error
			apiErr.AttemptsLeft = payload.AttemptsLeft
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
