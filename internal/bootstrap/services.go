package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/events"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/persistence"
	"github.com/spec-kit/ticket-deflection/internal/seed"
	"github.com/spec-kit/ticket-deflection/internal/service"
	"github.com/spec-kit/ticket-deflection/internal/triage"
)

// Services is the wired application layer.
type Services struct {
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Pipeline     *service.PipelineService
	Tickets      *service.TicketService
	Knowledge    *service.KnowledgeService
	Dashboard    *service.MetricsService
	Simulation   *service.SimulationService
	Auth         *service.AuthService
	Notification *service.NotificationService
}

// NewServices wires services over the stores. A nil cache disables caching.
func NewServices(cfg *config.Config, stores *Stores, cache *persistence.KnowledgeCache, logger *zap.Logger) *Services {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	var rules []triage.Rule
	if cfg.Deflection.ExtendedRules {
		rules = triage.ExtendedRules()
	}
	classifier := triage.NewClassifier(rules)

	knowledgeDeps := service.KnowledgeDependencies{
		KnowledgeRepo: stores.Knowledge,
		Dispatcher:    dispatcher,
		Logger:        logger,
	}
	if cache != nil {
		knowledgeDeps.Cache = cache
	}
	knowledge := service.NewKnowledgeService(knowledgeDeps)

	pipeline := service.NewPipelineService(service.PipelineDependencies{
		TicketRepo:   stores.Tickets,
		Articles:     knowledge,
		ActivityRepo: stores.Activity,
		Classifier:   classifier,
		Matcher:      triage.NewMatcher(triage.MatcherOptions{MinTokenLength: cfg.Deflection.MinTokenLength}),
		Decider:      triage.NewDecisionEngine(cfg.Deflection.AutoResolveThreshold),
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})

	return &Services{
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Pipeline:   pipeline,
		Tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo:   stores.Tickets,
			ActivityRepo: stores.Activity,
			Classifier:   classifier,
			Logger:       logger,
		}),
		Knowledge: knowledge,
		Dashboard: service.NewMetricsService(stores.Tickets, stores.Activity, metrics),
		Simulation: service.NewSimulationService(service.SimulationDependencies{
			Pipeline:    pipeline,
			Concurrency: cfg.Deflection.SimulationConcurrency,
			Logger:      logger,
		}),
		Auth:         service.NewAuthService(cfg.Auth),
		Notification: service.NewNotificationService(dispatcher, logger, cfg.Notification),
	}
}

// SeedKnowledge imports the embedded defaults and the seed directory, if set.
func SeedKnowledge(ctx context.Context, cfg config.KnowledgeConfig, knowledge *service.KnowledgeService, logger *zap.Logger) error {
	var errs []error
	if cfg.SeedDefaults {
		articles, err := seed.Defaults()
		if err != nil {
			return err
		}
		errs = append(errs, importArticles(ctx, "defaults", articles, knowledge, logger))
	}
	if cfg.SeedDir != "" {
		articles, err := seed.LoadDir(cfg.SeedDir)
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, importArticles(ctx, cfg.SeedDir, articles, knowledge, logger))
		}
	}
	return errors.Join(errs...)
}

func importArticles(ctx context.Context, source string, articles []seed.Article, knowledge *service.KnowledgeService, logger *zap.Logger) error {
	report, err := seed.Import(ctx, knowledge, articles)
	logger.Info("knowledge seeded",
		zap.String("source", source),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return err
}
