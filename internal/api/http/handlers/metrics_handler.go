package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-deflection/internal/api/dto"
	"github.com/spec-kit/ticket-deflection/internal/service"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// MetricsHandler serves dashboard reads and demo traffic.
type MetricsHandler struct {
	metrics   *service.MetricsService
	simulator *service.SimulationService
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *service.MetricsService, simulator *service.SimulationService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, simulator: simulator}
}

// Overview GET /api/metrics/overview.
func (h *MetricsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.metrics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMetricsOverviewResponse(overview)})
}

// Tickets GET /api/metrics/tickets.
func (h *MetricsHandler) Tickets(c *fiber.Ctx) error {
	limit, offset := parsePage(c, 20)
	tickets, err := h.metrics.RecentTickets(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// Activity GET /api/metrics/activity.
func (h *MetricsHandler) Activity(c *fiber.Ctx) error {
	limit, offset := parsePage(c, 50)
	entries, err := h.metrics.RecentActivity(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponses(entries)})
}

// Runtime GET /api/metrics/runtime.
func (h *MetricsHandler) Runtime(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Runtime()})
}

// Simulate POST /api/simulate.
func (h *MetricsHandler) Simulate(c *fiber.Ctx) error {
	count := 0
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("count must be an integer", map[string]any{"count": raw})
		}
		count = parsed
		if count == 0 {
			return apperrors.NewValidationError("count must be between 1 and 100", map[string]any{"count": count})
		}
	}
	summary, err := h.simulator.Simulate(c.UserContext(), count)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSimulationResponse(summary)})
}
