package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/api/dto"
	"github.com/spec-kit/ticket-deflection/internal/service"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	pipeline *service.PipelineService
	tickets  *service.TicketService
	logger   *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(pipeline *service.PipelineService, tickets *service.TicketService, logger *zap.Logger) *TicketsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketsHandler{pipeline: pipeline, tickets: tickets, logger: logger}
}

// Submit POST /api/tickets/submit.
//
// When the run produced a result but also failed, the partial result is
// returned in data next to the error.
func (h *TicketsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title or description required", nil)
	}

	result, err := h.pipeline.ProcessTicket(c.UserContext(), service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil && result == nil {
		return err
	}

	body := fiber.Map{"data": submitResponse(result)}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		h.logger.Warn("ticket submitted with errors",
			zap.String("ticket_id", result.Ticket.ID),
			zap.String("code", domainErr.Code),
			zap.Error(err))
		body["error"] = domainErr.Payload()
		return c.Status(domainErr.HTTPStatus).JSON(body)
	}
	return c.Status(http.StatusCreated).JSON(body)
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		return err
	}
	c.Location("/api/tickets/" + ticket.ID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	limit, offset := parsePage(c, 20)
	tickets, err := h.tickets.ListTickets(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummaries(tickets)})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.tickets.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ClassifyTicket POST /api/tickets/:id/classify.
func (h *TicketsHandler) ClassifyTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.ClassifyTicket(c.UserContext(), c.Params("id"))
	if err != nil && ticket == nil {
		return err
	}
	body := fiber.Map{"data": fiber.Map{
		"ticket": dto.NewTicketResponse(ticket),
		"classification": dto.ClassificationResponse{
			Category: ticket.Category,
			Severity: ticket.Severity,
		},
	}}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		body["error"] = domainErr.Payload()
		return c.Status(domainErr.HTTPStatus).JSON(body)
	}
	return c.JSON(body)
}

// ListActivity GET /api/tickets/:id/activity.
func (h *TicketsHandler) ListActivity(c *fiber.Ctx) error {
	entries, err := h.tickets.ListActivity(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponses(entries)})
}

func submitResponse(result *service.PipelineResult) dto.SubmitTicketResponse {
	return dto.SubmitTicketResponse{
		Ticket: dto.NewTicketResponse(&result.Ticket),
		Classification: dto.ClassificationResponse{
			Category: result.Category,
			Severity: result.Severity,
		},
		Match: dto.MatchResponse{
			ArticleTitle: result.MatchedArticleTitle,
			Score:        result.MatchScore,
		},
		ActivityLog: dto.NewActivityResponses(result.ActivityLog),
	}
}

func parsePage(c *fiber.Ctx, defaultLimit int) (int, int) {
	return parseInt(c.Query("limit"), defaultLimit), parseOffset(c.Query("offset"))
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseOffset(val string) int {
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}
