package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-deflection/internal/api/http/handlers"
	"github.com/spec-kit/ticket-deflection/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Knowledge      *handlers.KnowledgeHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
	// RequireOperator guards knowledge writes when operator auth is configured.
	RequireOperator bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/operator/login", cfg.Auth.Login)

	api := app.Group("/api")

	tickets := api.Group("/tickets")
	tickets.Post("/submit", cfg.Tickets.Submit)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/classify", cfg.Tickets.ClassifyTicket)
	tickets.Get("/:id/activity", cfg.Tickets.ListActivity)

	knowledge := api.Group("/knowledge")
	knowledge.Get("/", cfg.Knowledge.ListArticles)
	knowledge.Get("/:id", cfg.Knowledge.GetArticle)
	knowledge.Post("/", append(operatorGuard(cfg), cfg.Knowledge.CreateArticle)...)
	knowledge.Delete("/:id", append(operatorGuard(cfg), cfg.Knowledge.DeleteArticle)...)

	metrics := api.Group("/metrics")
	metrics.Get("/overview", cfg.Metrics.Overview)
	metrics.Get("/tickets", cfg.Metrics.Tickets)
	metrics.Get("/activity", cfg.Metrics.Activity)
	metrics.Get("/runtime", cfg.Metrics.Runtime)

	api.Post("/simulate", cfg.Metrics.Simulate)
}

func operatorGuard(cfg RouteConfig) []fiber.Handler {
	if cfg.AuthMiddleware == nil {
		return auth.Optional(false)
	}
	return auth.Optional(cfg.RequireOperator, cfg.AuthMiddleware.Handle, auth.RequireOperator())
}
