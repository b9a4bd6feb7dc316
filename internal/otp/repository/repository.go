package repository

import (
	"context"

	"github.com/karan399/milkman/internal/otp/domain"
)

// Outcome is what a verification attempt does to the record it was checked against.
type Outcome int

const (
	// OutcomeUnchanged leaves the record as is (expired or locked records).
	OutcomeUnchanged Outcome = iota
	// OutcomeFailed increments the attempt counter by one.
	OutcomeFailed
	// OutcomeVerified marks the record verified.
	OutcomeVerified
)

// Repository defines persistence for OTP records. Both methods are single atomic store operations.
type Repository interface {
	// Replace deletes every record for rec.Phone and inserts rec in one transaction,
	// so at most one unverified record exists per phone afterwards.
	Replace(ctx context.Context, rec *domain.Record) error
	// Resolve locks the newest unverified record for phone, passes a copy to decide, and applies the
	// returned outcome before releasing the lock. It returns the record as stored after the outcome,
	// or nil (and does not call decide) when the phone has no unverified record.
	Resolve(ctx context.Context, phone string, decide func(rec domain.Record) Outcome) (*domain.Record, error)
}
