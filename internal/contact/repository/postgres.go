package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karan399/milkman/internal/contact/domain"
)

// PostgresRepository implements Repository on the contact_messages table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository returns a contact repository that uses the given pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	return err
}
