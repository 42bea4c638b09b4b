package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/bootstrap"
	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/persistence"
	"github.com/spec-kit/ticket-deflection/internal/service"
)

// session is the wired application used by store-backed commands.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	stores *bootstrap.Stores
	redis  *persistence.Redis
	svcs   *bootstrap.Services
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Logger.Level = rootFlags.logLevel
	cfg.Logger.Format = "console"
	cfg.Logger.Output = "stderr"
	if rootFlags.memory {
		cfg.Store.Driver = config.StoreDriverSQLite
		cfg.SQLite.Path = ":memory:"
		cfg.Knowledge.SeedDefaults = true
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	redis := persistence.NewRedis(cfg.Redis, logger)
	svcs := bootstrap.NewServices(cfg, stores, persistence.NewKnowledgeCache(redis, cfg.Redis.CacheTTL()), logger)

	rt := &session{cfg: cfg, logger: logger, stores: stores, redis: redis, svcs: svcs}
	if rootFlags.memory {
		if err := bootstrap.SeedKnowledge(ctx, cfg.Knowledge, svcs.Knowledge, logger); err != nil {
			rt.Close()
			return nil, fmt.Errorf("seed knowledge: %w", err)
		}
	}
	return rt, nil
}

func (r *session) Close() {
	r.redis.Close()
	r.stores.Close()
	_ = r.logger.Sync()
}

func describeResult(result *service.PipelineResult) []string {
	lines := []string{
		fmt.Sprintf("Ticket:   %s", result.Ticket.ID),
		fmt.Sprintf("Category: %s", result.Category),
		fmt.Sprintf("Severity: %s", result.Severity),
	}
	if result.MatchedArticleTitle != nil {
		lines = append(lines, fmt.Sprintf("Match:    %q (score %.2f)", *result.MatchedArticleTitle, result.MatchScore))
	} else {
		lines = append(lines, "Match:    none")
	}
	lines = append(lines, fmt.Sprintf("Status:   %s", result.Ticket.Status))
	if result.Ticket.Resolution != nil {
		lines = append(lines, fmt.Sprintf("Resolution: %s", *result.Ticket.Resolution))
	}
	for _, entry := range result.ActivityLog {
		lines = append(lines, fmt.Sprintf("  %s  %-12s %s", entry.Timestamp.Format("15:04:05.000"), entry.Action, entry.Details))
	}
	return lines
}
