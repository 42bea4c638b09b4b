package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	"github.com/spec-kit/ticket-deflection/internal/triage"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// TicketService coordinates manual ticket workflows outside the pipeline.
type TicketService struct {
	tickets    repository.TicketRepository
	activity   repository.ActivityRepository
	classifier *triage.Classifier
	logger     *zap.Logger
	now        Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ActivityRepo repository.ActivityRepository
	Classifier   *triage.Classifier
	Logger       *zap.Logger
	Clock        Clock
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Source      string
}

// TicketUpdateInput carries optional text changes.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Source      *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		activity:   deps.ActivityRepo,
		classifier: deps.Classifier,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.classifier == nil {
		s.classifier = triage.NewClassifier(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateTicket stores a New ticket without running the pipeline.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	now := s.now()
	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
		Source:      strings.TrimSpace(input.Source),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceFailure("create ticket", err)
	}
	return ticket, nil
}

// ListTickets returns tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{Limit: limit, Offset: offset})
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketLookupError(id, err)
	}
	return ticket, nil
}

// UpdateTicket edits title, description or source. Pipeline fields are untouched.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Source != nil {
		ticket.Source = strings.TrimSpace(*input.Source)
	}
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, ticketWriteError(id, "update ticket", err)
	}
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return ticketWriteError(id, "delete ticket", err)
	}
	return nil
}

// ClassifyTicket classifies a stored ticket that has not yet been matched.
// The ticket is returned even when only the activity write failed.
func (s *TicketService) ClassifyTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusNew && ticket.Status != domain.TicketStatusClassified {
		return nil, apperrors.NewConflict("ticket already past classification", map[string]any{
			"id":     id,
			"status": ticket.Status,
		})
	}

	c := s.classifier.Classify(ticket.Title, ticket.Description)
	ticket.Category = c.Category
	ticket.Severity = c.Severity
	ticket.Status = domain.TicketStatusClassified
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, ticketWriteError(id, "update ticket", err)
	}

	recorder := NewActivityRecorder(s.activity, s.now)
	_, err = recorder.Record(ctx, ticket.ID, domain.ActionClassified,
		fmt.Sprintf("Classified as %s with %s severity (rule: %s)", c.Category, c.Severity, c.Rule))
	if err != nil {
		s.logger.Warn("classification activity not stored", zap.String("ticket_id", id), zap.Error(err))
		return ticket, err
	}
	return ticket, nil
}

// ListActivity returns a ticket's audit trail in recorded order.
func (s *TicketService) ListActivity(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	if _, err := s.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.activity.ListByTicket(ctx, ticketID)
}

func ticketLookupError(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return err
}

func ticketWriteError(id, operation string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return apperrors.NewPersistenceFailure(operation, err)
}
