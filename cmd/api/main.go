package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/api/http/handlers"
	"github.com/spec-kit/ticket-deflection/internal/bootstrap"
	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/persistence"
	"github.com/spec-kit/ticket-deflection/internal/seed"
	"github.com/spec-kit/ticket-deflection/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer stores.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	checks := stores.Checks
	if redis.Enabled() {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: redis.Ping})
	}

	svcs := bootstrap.NewServices(cfg, stores, persistence.NewKnowledgeCache(redis, cfg.Redis.CacheTTL()), logger)

	if err := bootstrap.SeedKnowledge(ctx, cfg.Knowledge, svcs.Knowledge, logger); err != nil {
		logger.Warn("knowledge seeding incomplete", zap.Error(err))
	}

	workers := worker.Options{Notifications: svcs.Notification}
	if cfg.Knowledge.Watch && cfg.Knowledge.SeedDir != "" {
		watcher, err := seed.NewWatcher(logger)
		if err != nil {
			logger.Fatal("failed to create seed watcher", zap.Error(err))
		}
		defer watcher.Close() //nolint:errcheck
		workers.SeedSource = watcher
		workers.SeedDir = cfg.Knowledge.SeedDir
		workers.Importer = svcs.Knowledge
	}
	if err := worker.Start(ctx, workers, logger); err != nil {
		logger.Fatal("failed to start workers", zap.Error(err))
	}

	app := bootstrap.NewHTTPApp(cfg, svcs, checks, logger)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", cfg.Store.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
