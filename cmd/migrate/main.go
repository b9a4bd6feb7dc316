// migrate applies the embedded SQL migrations to DATABASE_URL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/config"
	"github.com/karan399/milkman/internal/db/migrate"
	"github.com/karan399/milkman/internal/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env or export DATABASE_URL")
	}

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("migrations already at target version", zap.String("direction", *direction))
			return
		}
		log.Fatal("migrate failed", zap.String("direction", *direction), zap.Error(err))
	}
	log.Info("migrations applied", zap.String("direction", *direction))
}
