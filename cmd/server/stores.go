package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	addressrepo "github.com/karan399/milkman/internal/address/repository"
	auditrepo "github.com/karan399/milkman/internal/audit/repository"
	"github.com/karan399/milkman/internal/config"
	contactrepo "github.com/karan399/milkman/internal/contact/repository"
	"github.com/karan399/milkman/internal/db"
	"github.com/karan399/milkman/internal/health"
	otprepo "github.com/karan399/milkman/internal/otp/repository"
	sessionrepo "github.com/karan399/milkman/internal/session/repository"
	userrepo "github.com/karan399/milkman/internal/user/repository"
)

// stores holds one repository per area, either all Postgres or all in memory.
type stores struct {
	otps      otprepo.Repository
	users     userrepo.Repository
	addresses addressrepo.Repository
	sessions  sessionrepo.Repository
	contacts  contactrepo.Repository
	audit     auditrepo.Repository
	// pinger is nil in memory mode.
	pinger health.Pinger
	close  func()
}

// openStores connects to DATABASE_URL, or falls back to in-memory repositories when it is unset.
// config.Load already rejects the fallback in production.
func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set; using in-memory repositories (data is lost on restart)")
		return &stores{
			otps:      otprepo.NewMemoryRepository(),
			users:     userrepo.NewMemoryRepository(),
			addresses: addressrepo.NewMemoryRepository(),
			sessions:  sessionrepo.NewMemoryRepository(),
			contacts:  contactrepo.NewMemoryRepository(),
			audit:     auditrepo.NewMemoryRepository(),
			close:     func() {},
		}, nil
	}
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return postgresStores(pool), nil
}

func postgresStores(pool *pgxpool.Pool) *stores {
	return &stores{
		otps:      otprepo.NewPostgresRepository(pool),
		users:     userrepo.NewPostgresRepository(pool),
		addresses: addressrepo.NewPostgresRepository(pool),
		sessions:  sessionrepo.NewPostgresRepository(pool),
		contacts:  contactrepo.NewPostgresRepository(pool),
		audit:     auditrepo.NewPostgresRepository(pool),
		pinger:    pool,
		close:     pool.Close,
	}
}
