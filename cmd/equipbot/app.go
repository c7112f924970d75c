package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/UnknownOlympus/equipbot/internal/catalog"
	"github.com/UnknownOlympus/equipbot/internal/config"
	"github.com/UnknownOlympus/equipbot/internal/directory"
	"github.com/UnknownOlympus/equipbot/internal/metrics"
	"github.com/UnknownOlympus/equipbot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app holds everything a command needs once configuration and storage are ready.
type app struct {
	cfg       *config.Config
	log       *slog.Logger
	reg       *prometheus.Registry
	metrics   *metrics.Metrics
	pool      *pgxpool.Pool
	catalog   *catalog.Service
	directory *directory.Service
}

// bootstrap loads the configuration, connects to PostgreSQL, migrates the schema
// and grants the admin flag to the bootstrap identity.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := setupLogger(cfg.Env, os.Stdout)

	// Create a separate registry for metrics with runtime collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	pool, err := repository.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logger.InfoContext(ctx, "Database schema is up to date")

	repo := repository.NewRepository(pool)
	application := &app{
		cfg:     cfg,
		log:     logger,
		reg:     reg,
		metrics: metrics.NewMetrics(reg),
		pool:    pool,
		catalog: catalog.NewService(logger, repo, catalog.Config{
			Categories:      cfg.Catalog.Categories,
			DefaultCurrency: cfg.Catalog.DefaultCurrency,
			PageSize:        cfg.Catalog.PageSize,
			MaxPageSize:     cfg.Catalog.MaxPageSize,
		}),
		directory: directory.NewService(logger, repo),
	}

	if err = application.directory.SeedAdmin(ctx, cfg.Telegram.AdminID); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	return application, nil
}

func (a *app) close() {
	a.pool.Close()
}
