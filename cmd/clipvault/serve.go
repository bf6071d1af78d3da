// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ClipVault Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault/internal/auth"
	authpg "github.com/clipvault/clipvault/internal/auth/postgres"
	"github.com/clipvault/clipvault/internal/clipboard"
	clippg "github.com/clipvault/clipvault/internal/clipboard/postgres"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/logging"
	"github.com/clipvault/clipvault/internal/observability"
	"github.com/clipvault/clipvault/internal/store"
	"github.com/clipvault/clipvault/internal/web"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the ClipVault API server, running any pending database
migrations first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}

	logging.SetDefault("clipvault", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
	)

	if err := migrateUp(cfg.DatabaseURL); err != nil {
		return err
	}

	db, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("connected to database")

	sessions := auth.NewSessionRegistry()
	authSvc, err := auth.NewService(authpg.NewUserRepository(db.Pool()), sessions, auth.NewArgon2idHasher())
	if err != nil {
		return err
	}
	clipSvc, err := clipboard.NewService(clippg.NewItemRepository(db.Pool()))
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	var obsSrv *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obsSrv = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return db.Pool().Ping(pingCtx) == nil
		}, sessions.Active)
		metrics = obsSrv.Metrics()

		obsErrCh, err = obsSrv.Start()
		if err != nil {
			return err
		}
		logger.Info("observability server started", "addr", obsSrv.Addr())
	}

	cookies := web.CookieSettings{
		HTTPOnly: cfg.Cookie.HTTPOnly,
		Secure:   cfg.Cookie.Secure,
		SameSite: web.ParseSameSite(cfg.Cookie.SameSite),
		MaxAge:   cfg.Cookie.MaxAge,
	}
	handlers, err := web.NewHandlers(authSvc, clipSvc, cookies, metrics, logger)
	if err != nil {
		return err
	}

	apiSrv := web.NewServer(cfg.ListenAddr, web.NewRouter(handlers, cfg.CORSOrigins))
	apiErrCh, err := apiSrv.Start()
	if err != nil {
		return err
	}
	logger.Info("api server started", "addr", apiSrv.Addr())

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
		if err != nil {
			logger.Error("api server failed", "error", err)
		}
	case err = <-obsErrCh:
		if err != nil {
			logger.Error("observability server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := apiSrv.Stop(shutdownCtx); stopErr != nil {
		logger.Error("api server shutdown failed", "error", stopErr)
	}
	if obsSrv != nil {
		if stopErr := obsSrv.Stop(shutdownCtx); stopErr != nil {
			logger.Error("observability server shutdown failed", "error", stopErr)
		}
	}

	logger.Info("server stopped")
	return err
}

func migrateUp(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
