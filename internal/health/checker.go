// Package health decides liveness and readiness of the API process.
package health

import (
	"context"
	"fmt"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger checks database connectivity. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PolicyChecker checks that the delivery policy compiles and evaluates.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Checker runs the readiness checks. A nil dependency is skipped (e.g. in-memory mode has no database).
type Checker struct {
	db     Pinger
	policy PolicyChecker
}

// NewChecker returns a readiness checker. db and policy may be nil.
func NewChecker(db Pinger, policy PolicyChecker) *Checker {
	return &Checker{db: db, policy: policy}
}

// Ready returns the first failing check, or nil.
func (c *Checker) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if c.db != nil {
		if err := c.db.Ping(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if c.policy != nil {
		if err := c.policy.HealthCheck(ctx); err != nil {
			return fmt.Errorf("delivery policy: %w", err)
		}
	}
	return nil
}
