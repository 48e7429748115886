// Command migrate applies pending goose migrations to the database and
// exits. The server only migrates on start when DATABASE_MIGRATE_ON_START
// (or database.migrate_on_start) is true.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/crm-activity-backend/internal/adapter/postgres"
	"github.com/heartmarshall/crm-activity-backend/internal/app"
	"github.com/heartmarshall/crm-activity-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, cfg.Database.MigrationsDir, logger); err != nil {
		logger.Error("migrate failed",
			slog.String("error", err.Error()),
			slog.String("dir", cfg.Database.MigrationsDir),
		)
		pool.Close()
		os.Exit(1)
	}

	logger.Info("migrations applied", slog.String("dir", cfg.Database.MigrationsDir))
}
