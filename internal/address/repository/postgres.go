// Package repository persists delivery addresses in Postgres (or in memory for local runs and tests).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karan399/milkman/internal/address/domain"
)

const addressColumns = `id, user_id, type, name, address, city, state, pincode, landmark, is_default, lat, lng, created_at`

// PostgresRepository implements Repository on the user_addresses table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns an address repository backed by pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Address, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*domain.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	a, err := scanAddress(r.pool.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM user_addresses WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *PostgresRepository) Create(ctx context.Context, a *domain.Address) error {
	lat, lng := coords(a)
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.UserID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO user_addresses (`+addressColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			a.ID, a.UserID, string(a.Type), a.Name, a.Line, a.City, a.State, a.Pincode, a.Landmark, a.IsDefault, lat, lng, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
}

func (r *PostgresRepository) Update(ctx context.Context, a *domain.Address) (bool, error) {
	lat, lng := coords(a)
	found := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.UserID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, `
			UPDATE user_addresses
			SET type = $3, name = $4, address = $5, city = $6, state = $7, pincode = $8,
			    landmark = $9, is_default = $10, lat = $11, lng = $12
			WHERE id = $1 AND user_id = $2`,
			a.ID, a.UserID, string(a.Type), a.Name, a.Line, a.City, a.State, a.Pincode, a.Landmark, a.IsDefault, lat, lng)
		if err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		found = tag.RowsAffected() == 1
		if !found {
			// Roll back the cleared default.
			return errNotOwned
		}
		return nil
	})
	if errors.Is(err, errNotOwned) {
		return false, nil
	}
	return found, err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) SetDefault(ctx context.Context, userID, id string) (bool, error) {
	found := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE user_addresses SET is_default = (id = $2)
			WHERE user_id = $1 AND EXISTS (SELECT 1 FROM user_addresses WHERE id = $2 AND user_id = $1)`,
			userID, id)
		if err != nil {
			return fmt.Errorf("set default address: %w", err)
		}
		found = tag.RowsAffected() > 0
		return nil
	})
	return found, err
}

var errNotOwned = errors.New("address not owned by user")

func clearDefault(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `UPDATE user_addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID); err != nil {
		return fmt.Errorf("clear default address: %w", err)
	}
	return nil
}

func coords(a *domain.Address) (lat, lng *float64) {
	if a.Coordinates == nil {
		return nil, nil
	}
	return &a.Coordinates.Lat, &a.Coordinates.Lng
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var (
		a        domain.Address
		typ      string
		lat, lng *float64
	)
	if err := row.Scan(&a.ID, &a.UserID, &typ, &a.Name, &a.Line, &a.City, &a.State, &a.Pincode,
		&a.Landmark, &a.IsDefault, &lat, &lng, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Type = domain.AddressType(typ)
	if lat != nil && lng != nil {
		a.Coordinates = &domain.Coordinates{Lat: *lat, Lng: *lng}
	}
	return &a, nil
}
