// Package repository persists OTP records in Postgres (or in memory for local runs and tests).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karan399/milkman/internal/otp/domain"
)

const (
	uniqueViolation = "23505"
	// replaceRetries bounds retries when a concurrent Replace for the same phone wins the partial unique index.
	replaceRetries = 5
)

// PostgresRepository implements Repository on the otp_records table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns an OTP repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Replace deletes the phone's records and inserts rec in one transaction. A concurrent issuance for the
// same phone trips the partial unique index; the loser retries so the last writer's record survives.
func (r *PostgresRepository) Replace(ctx context.Context, rec *domain.Record) error {
	var err error
	for i := 0; i < replaceRetries; i++ {
		if err = r.replaceOnce(ctx, rec); !isUniqueViolation(err) {
			return err
		}
	}
	return err
}

func (r *PostgresRepository) replaceOnce(ctx context.Context, rec *domain.Record) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM otp_records WHERE phone = $1`, rec.Phone); err != nil {
			return fmt.Errorf("delete otp records: %w", err)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO otp_records (id, phone, code_hash, expires_at, verified, attempts, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, rec.Phone, rec.CodeHash, rec.ExpiresAt, rec.Verified, rec.Attempts, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert otp record: %w", err)
		}
		return nil
	})
}

// Resolve runs lookup and update in one transaction holding a row lock (SELECT ... FOR UPDATE).
func (r *PostgresRepository) Resolve(ctx context.Context, phone string, decide func(rec domain.Record) Outcome) (*domain.Record, error) {
	var out *domain.Record
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var rec domain.Record
		err := tx.QueryRow(ctx, `
			SELECT id, phone, code_hash, expires_at, verified, attempts, created_at
			FROM otp_records
			WHERE phone = $1 AND verified = FALSE
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE`, phone).
			Scan(&rec.ID, &rec.Phone, &rec.CodeHash, &rec.ExpiresAt, &rec.Verified, &rec.Attempts, &rec.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("select otp record: %w", err)
		}
		switch decide(rec) {
		case OutcomeFailed:
			if err := tx.QueryRow(ctx,
				`UPDATE otp_records SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`, rec.ID).
				Scan(&rec.Attempts); err != nil {
				return fmt.Errorf("increment otp attempts: %w", err)
			}
		case OutcomeVerified:
			if _, err := tx.Exec(ctx, `UPDATE otp_records SET verified = TRUE WHERE id = $1`, rec.ID); err != nil {
				return fmt.Errorf("mark otp verified: %w", err)
			}
			rec.Verified = true
		}
		out = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
