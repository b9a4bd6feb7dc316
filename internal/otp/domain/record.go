// Package domain holds the OTP record and its lifecycle states.
package domain

import "time"

// Fixed OTP policy.
const (
	// CodeLength is the number of digits in an issued code.
	CodeLength = 6
	// MaxAttempts is the number of failed verifications after which a record is locked.
	MaxAttempts = 3
	// DefaultTTL is how long an issued code stays usable.
	DefaultTTL = 5 * time.Minute
)

// State is the lifecycle state of an OTP record, derived at read time.
type State string

const (
	StateActive   State = "ACTIVE"
	StateVerified State = "VERIFIED"
	StateExpired  State = "EXPIRED"
	StateLocked   State = "LOCKED"
)

// Record is one issuance for a phone number. The plain code is never stored; CodeHash is its SHA-256 hex digest.
type Record struct {
	ID        string
	Phone     string // normalized digits
	CodeHash  string
	ExpiresAt time.Time
	Verified  bool
	Attempts  int
	CreatedAt time.Time
}

// State returns the record state at now. Verified is terminal; an expired record reports EXPIRED even when
// attempts are exhausted, matching the order in which verification checks them.
func (r *Record) State(now time.Time) State {
	switch {
	case r.Verified:
		return StateVerified
	case now.After(r.ExpiresAt):
		return StateExpired
	case r.Attempts >= MaxAttempts:
		return StateLocked
	default:
		return StateActive
	}
}

// AttemptsLeft returns how many failed verifications remain before the record locks (never negative).
func (r *Record) AttemptsLeft() int {
	if left := MaxAttempts - r.Attempts; left > 0 {
		return left
	}
	return 0
}
