// Command dispatchd serves the dispatch API and runs the SLA monitor and
// enrichment runner, as selected by SERVICES.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tradedispatch/dispatch-api/config"
	"github.com/tradedispatch/dispatch-api/internal/bootstrap"
	"github.com/tradedispatch/dispatch-api/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "dispatchd exited", "error", err)
		os.Exit(1) //nolint:forbidigo // non-zero exit on fatal startup or runtime errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateServiceConfig(&cfg); err != nil {
		return err
	}
	logger.InfoContext(ctx, "starting dispatchd",
		"version", buildVersion(),
		"services", bootstrap.GetEnabledServices(&cfg),
		"store", storeLabel(&cfg),
		"mock_mode", cfg.MockMode,
	)

	in, err := connect(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer in.close(ctx, logger)

	if in.db != nil {
		if !cfg.Postgres.RunMigrationsOnStart {
			logger.InfoContext(ctx, "migrations on start disabled")
		} else if err := bootstrap.RunMigrations(ctx, in.db, logger); err != nil {
			return err
		}
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          in.db,
		RedisClient: in.redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	// The in-memory store starts empty, so it is always seeded.
	if in.db == nil || cfg.SeedDemoData {
		if err := devseed.Run(ctx, devseed.Deps{
			Target: services.Repos.Seed,
			Leads:  services.Repos.Leads,
			SLA:    services.Repos.SLA,
			Logger: logger.With("component", "devseed"),
		}); err != nil {
			logger.WarnContext(ctx, "demo data seeding incomplete", "error", err)
		}
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

// infra holds the external connections; either may be nil.
type infra struct {
	db    *sql.DB
	redis redis.UniversalClient
}

// connect opens Postgres when DB_HOST is set and Redis when reachable.
// Redis is best effort: without it dispatch locks and geocode caching are off.
func connect(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infra, error) {
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}
	in := &infra{}

	if strings.TrimSpace(cfg.Postgres.Host) != "" {
		db, err := bootstrap.ConnectDB(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		in.db = db
	}

	client, err := bootstrap.ConnectRedis(dbCfg)
	if err != nil {
		logger.WarnContext(ctx, "redis unavailable; dispatch locks and geocode caching disabled", "error", err)
	} else {
		in.redis = client
	}
	return in, nil
}

func (in *infra) close(ctx context.Context, logger *slog.Logger) {
	var errs []error
	if in.redis != nil {
		errs = append(errs, in.redis.Close())
	}
	if in.db != nil {
		errs = append(errs, in.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		logger.ErrorContext(ctx, "closing connections", "error", err)
	}
}

func storeLabel(cfg *config.AppConfig) string {
	if strings.TrimSpace(cfg.Postgres.Host) == "" {
		return "memory"
	}
	return "postgres://" + cfg.Postgres.Host + "/" + cfg.Postgres.Name
}

// buildVersion reports the VCS revision stamped by go build, if any.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	if info.Main.Version == "" {
		return "dev"
	}
	return info.Main.Version
}
