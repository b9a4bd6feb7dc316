// Package repository persists sessions in Postgres (or in memory for local runs and tests).
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karan399/milkman/internal/session/domain"
)

// PostgresRepository implements Repository on the sessions table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns a session repository that uses the given pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists the session. The session must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, phone, token_hash, created_at, revoked_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, s.Phone, s.TokenHash, s.CreatedAt, s.RevokedAt)
	return err
}

// GetByTokenHash returns the session for tokenHash, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var s domain.Session
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, phone, token_hash, created_at, revoked_at FROM sessions WHERE token_hash = $1`, tokenHash).
		Scan(&s.ID, &s.UserID, &s.Phone, &s.TokenHash, &s.CreatedAt, &s.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke marks the session revoked. Revoking twice keeps the first timestamp.
func (r *PostgresRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`, id, at)
	return err
}
