package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/esop/appliance-portal/internal/api"
	"github.com/esop/appliance-portal/internal/core/service"
	"github.com/esop/appliance-portal/internal/infrastructure/config"
	mongodb "github.com/esop/appliance-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/esop/appliance-portal/internal/infrastructure/db/redis"
	"github.com/esop/appliance-portal/internal/infrastructure/poller"
	"github.com/esop/appliance-portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from the config; fall back to a default one.
		fallback := logger.New(logger.Options{})
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	deps := api.Wire(db, rdb, cfg, log)

	if err := deps.UserRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := service.BootstrapAdmin(ctx, deps.UserRepo, cfg.DefaultAdminPwd, log); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	poller.New(deps.ApplianceService, cfg.Upstream.RefreshInterval,
		log.With().Str("component", "poller").Logger()).Start(ctx)

	e := api.NewRouter(db, rdb, cfg, log, deps)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
