package events

import (
	"time"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketSubmitted         EventType = "ticket_submitted"
	EventTicketDeflected         EventType = "ticket_deflected"
	EventTicketEscalated         EventType = "ticket_escalated"
	EventKnowledgeArticleChanged EventType = "knowledge_article_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	Username *string            `json:"username,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// TicketOutcomePayload is shared by deflected and escalated events.
type TicketOutcomePayload struct {
	Category     domain.TicketCategory `json:"category"`
	Severity     domain.TicketSeverity `json:"severity"`
	ArticleTitle *string               `json:"article_title,omitempty"`
	Score        float64               `json:"score"`
}

// KnowledgeChange names what happened to an article.
type KnowledgeChange string

const (
	KnowledgeCreated KnowledgeChange = "created"
	KnowledgeDeleted KnowledgeChange = "deleted"
)

// KnowledgeArticleChangedPayload payload.
type KnowledgeArticleChangedPayload struct {
	ArticleID string                `json:"article_id"`
	Category  domain.TicketCategory `json:"category"`
	Change    KnowledgeChange       `json:"change"`
}
