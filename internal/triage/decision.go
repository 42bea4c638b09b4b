package triage

import (
	"fmt"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// DefaultAutoResolveThreshold is the minimum match score for deflection.
const DefaultAutoResolveThreshold = 0.5

// Decision is the terminal outcome for a ticket.
type Decision struct {
	Status     domain.TicketStatus
	Resolution *string
}

// AutoResolved reports whether the ticket was deflected.
func (d Decision) AutoResolved() bool {
	return d.Status == domain.TicketStatusAutoResolved
}

// DecisionEngine gates auto-resolution on severity and match score.
type DecisionEngine struct {
	threshold float64
}

// NewDecisionEngine returns an engine using threshold; values outside (0, 1]
// fall back to DefaultAutoResolveThreshold.
func NewDecisionEngine(threshold float64) *DecisionEngine {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultAutoResolveThreshold
	}
	return &DecisionEngine{threshold: threshold}
}

// Threshold returns the effective auto-resolve threshold.
func (e *DecisionEngine) Threshold() float64 {
	return e.threshold
}

// Decide auto-resolves only below Critical with a score at or above the threshold.
// Critical tickets always go to a human.
func (e *DecisionEngine) Decide(severity domain.TicketSeverity, match Match) Decision {
	if severity.Rank() < domain.SeverityCritical.Rank() && match.Found() && match.Score >= e.threshold {
		resolution := ResolutionText(*match.Article)
		return Decision{Status: domain.TicketStatusAutoResolved, Resolution: &resolution}
	}
	return Decision{Status: domain.TicketStatusEscalated}
}

// ResolutionText renders the customer-facing resolution for an article.
func ResolutionText(article domain.KnowledgeArticle) string {
	return fmt.Sprintf("Resolved automatically using knowledge article %q: %s", article.Title, article.Content)
}
