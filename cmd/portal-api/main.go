// Command portal-api serves the back office and the client portal.
//
// @title                       Client Desk API
// @version                     1.0
// @description                 Back-office and client portal API over the embedded store and the portal database.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clientdesk/portal/internal/api"
	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/service"
	"github.com/clientdesk/portal/internal/infrastructure/db/postgres"
	"github.com/clientdesk/portal/internal/infrastructure/kv"
	"github.com/clientdesk/portal/internal/infrastructure/queue"
	"github.com/clientdesk/portal/internal/pkg/config"
	"github.com/clientdesk/portal/internal/pkg/credential"
	"github.com/clientdesk/portal/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "portal-api",
	})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("portal-api stopped")
		os.Exit(1)
	}
}

// run owns every resource the process opens. It returns only after they have
// been released, so a failure never skips flushing the store.
func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	// --- Embedded store ---
	sub, err := kv.Open(ctx, kv.Config{
		Backend:    cfg.Store.Backend,
		BadgerPath: cfg.Store.BadgerPath,
		Redis:      kv.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		Mongo:      kv.MongoConfig{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database},
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	keys := kv.NewKeys(cfg.Store.Prefix)
	adminHash, err := credential.Hash(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	seeder := kv.NewSeeder(sub, keys, kv.BootstrapAdmin{
		Name:         cfg.Bootstrap.AdminName,
		Email:        cfg.Bootstrap.AdminEmail,
		PasswordHash: adminHash,
	}, logger.For("seed"))
	if _, err := seeder.EnsureSeeded(ctx); err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	store := service.NewStore(service.Collections{
		Users:         kv.NewCollection[domain.User](sub, keys.Users),
		Clients:       kv.NewCollection[domain.Client](sub, keys.Clients),
		Projects:      kv.NewCollection[domain.Project](sub, keys.Projects),
		Resources:     kv.NewCollection[domain.Resource](sub, keys.Resources),
		Activities:    kv.NewCollection[domain.Activity](sub, keys.Activities),
		Notifications: kv.NewCollection[domain.Notification](sub, keys.Notifications),
	}, logger.For("store"))

	// --- Portal database ---
	gw := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN, Timeout: cfg.Postgres.Timeout}, logger.For("database"))
	defer gw.Close()
	gw.InitializeDatabase(ctx)
	data := postgres.NewDataService(gw)

	// Not tied to ctx: queued entries are drained after the server stops.
	audit := queue.NewDispatcher(cfg.Audit.Workers, data, logger.For("audit"))
	audit.Start(context.Background())
	defer audit.Close()

	e := api.NewRouter(api.Deps{
		Store:     store,
		Portal:    data,
		Audit:     audit,
		Substrate: sub,
		Database:  gw,
		JWTSecret: cfg.JWTSecret,
		RateLimit: cfg.RateLimit,
		Log:       logger.For("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", sub.Name()).Bool("database", !gw.InFallback()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	return runErr
}
