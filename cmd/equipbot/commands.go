package main

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/equipbot/internal/admin"
	"github.com/UnknownOlympus/equipbot/internal/bot"
	"github.com/UnknownOlympus/equipbot/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// frontends selects what a command runs next to the monitoring server.
type frontends struct {
	bot   bool
	admin bool
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot, the admin API and the monitoring server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), frontends{bot: true, admin: true})
		},
	}
}

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot and the monitoring server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), frontends{bot: true})
		},
	}
}

func newAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Run the administration API and the monitoring server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), frontends{admin: true})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer application.close()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalog into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer application.close()

			created, err := application.catalog.SeedSamples(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to seed sample data: %w", err)
			}

			if created == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has data, nothing to seed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample records\n", created)
			return nil
		},
	}
}

// run starts the selected front-ends and the monitoring server and blocks until
// ctx is canceled or one of them fails.
func run(ctx context.Context, fe frontends) error {
	application, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer application.close()

	cfg, logger := application.cfg, application.log

	var tgBot *bot.Bot
	if fe.bot {
		if err = cfg.RequireToken(); err != nil {
			return err
		}
		tgBot, err = bot.NewBot(
			logger, application.catalog, application.directory, application.metrics,
			cfg.Telegram.Token, cfg.Telegram.Timeout,
		)
		if err != nil {
			return err
		}
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return server.StartMonitoringServer(gctx, logger, application.reg, application.pool, cfg.Monitoring.Port)
	})

	if fe.admin {
		if cfg.Env != envLocal {
			gin.SetMode(gin.ReleaseMode)
		}
		router := admin.NewRouter(logger, application.catalog, application.directory, application.metrics)
		group.Go(func() error {
			return server.Run(gctx, logger, "admin", admin.NewServer(cfg.Admin.Addr(), router))
		})
	}

	if tgBot != nil {
		// Start blocks until Stop is called.
		group.Go(func() error {
			tgBot.Start()
			return nil
		})
		group.Go(func() error {
			<-gctx.Done()
			tgBot.Stop()
			return nil
		})
	}

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	if err = group.Wait(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Application stopped gracefully.")
	return nil
}
