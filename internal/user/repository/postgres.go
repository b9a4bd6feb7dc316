// Package repository persists users in Postgres (or in memory for local runs and tests).
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karan399/milkman/internal/user/domain"
)

const userColumns = `id, phone, name, email, created_at, updated_at`

// PostgresRepository implements Repository on the user_profiles table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns a user repository that uses the given pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM user_profiles WHERE id = $1`, id))
}

// GetByPhone returns the user with the given phone, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM user_profiles WHERE phone = $1`, phone))
}

// GetOrCreateByPhone inserts u unless the phone exists; ON CONFLICT makes concurrent first logins converge.
func (r *PostgresRepository) GetOrCreateByPhone(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	created, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (id, phone, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (phone) DO NOTHING
		RETURNING `+userColumns,
		u.ID, u.Phone, u.Name, u.Email, u.CreatedAt, u.UpdatedAt))
	if err != nil {
		return nil, false, err
	}
	if created != nil {
		return created, true, nil
	}
	existing, err := r.GetByPhone(ctx, u.Phone)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("user vanished after phone conflict")
	}
	return existing, false, nil
}

// UpdateProfile updates name, email and updated_at. A missing user is not an error.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_profiles SET name = $2, email = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.UpdatedAt)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
