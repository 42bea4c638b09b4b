package bootstrap

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-deflection/internal/api/http"
	"github.com/spec-kit/ticket-deflection/internal/api/http/handlers"
	"github.com/spec-kit/ticket-deflection/internal/auth"
	"github.com/spec-kit/ticket-deflection/internal/config"
)

// NewHTTPApp builds the fiber application with every route registered.
func NewHTTPApp(cfg *config.Config, svcs *Services, checks []handlers.DependencyCheck, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, svcs.Metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Auth:            handlers.NewAuthHandler(svcs.Auth),
		Tickets:         handlers.NewTicketsHandler(svcs.Pipeline, svcs.Tickets, logger),
		Knowledge:       handlers.NewKnowledgeHandler(svcs.Knowledge),
		Metrics:         handlers.NewMetricsHandler(svcs.Dashboard, svcs.Simulation),
		AuthMiddleware:  auth.NewAuthMiddleware(svcs.Auth.TokenManager(), svcs.Auth.Username()),
		RequireOperator: svcs.Auth.Enabled(),
	})
	return app
}
