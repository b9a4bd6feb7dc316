package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the OTP service; the HTTP handler maps them to status codes and messages.
var (
	ErrValidation    = errors.New("otp: invalid request")
	ErrNotFound      = errors.New("otp: no valid otp found for this phone number")
	ErrExpired       = errors.New("otp: otp has expired")
	ErrLocked        = errors.New("otp: too many failed attempts")
	ErrConfiguration = errors.New("otp: backend not configured")
	ErrRateLimited   = errors.New("otp: too many otp requests")
)

// ValidationError describes a malformed or missing input. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// InvalidCodeError is returned when the submitted code does not match. AttemptsLeft may be 0,
// after which the record is locked.
type InvalidCodeError struct {
	AttemptsLeft int
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("otp: invalid code (%d attempts left)", e.AttemptsLeft)
}

// Persistence operations reported in PersistenceError.Op.
const (
	OpStoreOTP      = "store otp"
	OpResolveOTP    = "resolve otp"
	OpCreateUser    = "get or create user"
	OpListAddresses = "list addresses"
	OpCreateSession = "create session"
)

// PersistenceError wraps a failed read or write of the OTP, user or session stores.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("otp: %s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// RateLimitedError is returned when the resend limiter denies an issuance. It matches ErrRateLimited.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("otp: too many otp requests, retry after %s", e.RetryAfter.Round(time.Second))
}

// Is reports whether target is ErrRateLimited.
func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }
