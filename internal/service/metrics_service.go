package service

import (
	"context"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

const (
	defaultTicketPage   = 20
	defaultActivityPage = 50
	unclassifiedLabel   = "Unclassified"
)

// MetricsOverview aggregates deflection outcomes across all tickets.
type MetricsOverview struct {
	TotalTickets   int
	AutoResolved   int
	Escalated      int
	ResolutionRate float64
	ByCategory     map[string]int
	BySeverity     map[string]int
	ByStatus       map[string]int
}

// MetricsService serves dashboard reads.
type MetricsService struct {
	tickets  repository.TicketRepository
	activity repository.ActivityRepository
	runtime  *observability.Metrics
}

// NewMetricsService constructs the service.
func NewMetricsService(tickets repository.TicketRepository, activity repository.ActivityRepository, runtime *observability.Metrics) *MetricsService {
	return &MetricsService{tickets: tickets, activity: activity, runtime: runtime}
}

// Overview computes totals and breakdowns. The resolution rate is 0 with no tickets.
func (s *MetricsService) Overview(ctx context.Context) (*MetricsOverview, error) {
	counts, err := s.tickets.CountByClassification(ctx)
	if err != nil {
		return nil, err
	}

	overview := &MetricsOverview{
		ByCategory: map[string]int{},
		BySeverity: map[string]int{},
		ByStatus:   map[string]int{},
	}
	for _, c := range counts {
		overview.TotalTickets += c.Count
		switch c.Status {
		case domain.TicketStatusAutoResolved:
			overview.AutoResolved += c.Count
		case domain.TicketStatusEscalated:
			overview.Escalated += c.Count
		}
		overview.ByCategory[labelOr(string(c.Category))] += c.Count
		overview.BySeverity[labelOr(string(c.Severity))] += c.Count
		overview.ByStatus[string(c.Status)] += c.Count
	}
	if overview.TotalTickets > 0 {
		overview.ResolutionRate = float64(overview.AutoResolved) / float64(overview.TotalTickets)
	}
	return overview, nil
}

// RecentTickets lists tickets newest first.
func (s *MetricsService) RecentTickets(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = defaultTicketPage
	}
	return s.tickets.List(ctx, repository.TicketFilter{Limit: limit, Offset: offset})
}

// RecentActivity lists activity entries newest first.
func (s *MetricsService) RecentActivity(ctx context.Context, limit, offset int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = defaultActivityPage
	}
	return s.activity.List(ctx, repository.ActivityFilter{Limit: limit, Offset: offset})
}

// Runtime returns the in-process counters.
func (s *MetricsService) Runtime() observability.Snapshot {
	return s.runtime.Snapshot()
}

func labelOr(value string) string {
	if value == "" {
		return unclassifiedLabel
	}
	return value
}
