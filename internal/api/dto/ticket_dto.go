package dto

import (
	"time"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// SubmitTicketRequest payload for the deflection pipeline.
type SubmitTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// CreateTicketRequest payload for storing a ticket without processing it.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// UpdateTicketRequest payload; omitted fields are left unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Source      *string `json:"source"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Severity    domain.TicketSeverity `json:"severity"`
	Status      domain.TicketStatus   `json:"status"`
	Resolution  *string               `json:"resolution"`
	Source      string                `json:"source"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketSummary is the list view used by dashboards.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Category   domain.TicketCategory `json:"category"`
	Severity   domain.TicketSeverity `json:"severity"`
	Status     domain.TicketStatus   `json:"status"`
	Source     string                `json:"source"`
	Resolution *string               `json:"resolution"`
	CreatedAt  time.Time             `json:"created_at"`
}

// ClassificationResponse is the classifier verdict.
type ClassificationResponse struct {
	Category domain.TicketCategory `json:"category"`
	Severity domain.TicketSeverity `json:"severity"`
}

// MatchResponse is the best knowledge article, if any.
type MatchResponse struct {
	ArticleTitle *string `json:"article_title"`
	Score        float64 `json:"score"`
}

// ActivityResponse is one audit entry.
type ActivityResponse struct {
	ID        string                `json:"id"`
	TicketID  string                `json:"ticket_id"`
	Action    domain.ActivityAction `json:"action"`
	Details   string                `json:"details"`
	Timestamp time.Time             `json:"timestamp"`
}

// SubmitTicketResponse is the pipeline outcome.
type SubmitTicketResponse struct {
	Ticket         TicketResponse         `json:"ticket"`
	Classification ClassificationResponse `json:"classification"`
	Match          MatchResponse          `json:"match"`
	ActivityLog    []ActivityResponse     `json:"activity_log"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    ticket.Category,
		Severity:    ticket.Severity,
		Status:      ticket.Status,
		Resolution:  ticket.Resolution,
		Source:      ticket.Source,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketSummaries maps a ticket list.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	items := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, TicketSummary{
			ID:         t.ID,
			Title:      t.Title,
			Category:   t.Category,
			Severity:   t.Severity,
			Status:     t.Status,
			Source:     t.Source,
			Resolution: t.Resolution,
			CreatedAt:  t.CreatedAt,
		})
	}
	return items
}

// NewActivityResponses maps audit entries.
func NewActivityResponses(entries []domain.ActivityLogEntry) []ActivityResponse {
	items := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, ActivityResponse{
			ID:        e.ID,
			TicketID:  e.TicketID,
			Action:    e.Action,
			Details:   e.Details,
			Timestamp: e.Timestamp,
		})
	}
	return items
}
