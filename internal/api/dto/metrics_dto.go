package dto

import "github.com/spec-kit/ticket-deflection/internal/service"

// MetricsOverviewResponse summarizes deflection outcomes.
type MetricsOverviewResponse struct {
	TotalTickets   int            `json:"total_tickets"`
	AutoResolved   int            `json:"auto_resolved"`
	Escalated      int            `json:"escalated"`
	ResolutionRate float64        `json:"resolution_rate"`
	ByCategory     map[string]int `json:"by_category"`
	BySeverity     map[string]int `json:"by_severity"`
	ByStatus       map[string]int `json:"by_status"`
}

// SimulatedTicketResponse is one simulated submission.
type SimulatedTicketResponse struct {
	TicketID string  `json:"ticket_id,omitempty"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Severity string  `json:"severity"`
	Status   string  `json:"status"`
	Score    float64 `json:"score"`
	Error    string  `json:"error,omitempty"`
}

// SimulationResponse aggregates a simulation batch.
type SimulationResponse struct {
	Requested    int                       `json:"requested"`
	Processed    int                       `json:"processed"`
	AutoResolved int                       `json:"auto_resolved"`
	Escalated    int                       `json:"escalated"`
	Failed       int                       `json:"failed"`
	Tickets      []SimulatedTicketResponse `json:"tickets"`
}

// NewMetricsOverviewResponse maps the service overview.
func NewMetricsOverviewResponse(o *service.MetricsOverview) MetricsOverviewResponse {
	return MetricsOverviewResponse{
		TotalTickets:   o.TotalTickets,
		AutoResolved:   o.AutoResolved,
		Escalated:      o.Escalated,
		ResolutionRate: o.ResolutionRate,
		ByCategory:     o.ByCategory,
		BySeverity:     o.BySeverity,
		ByStatus:       o.ByStatus,
	}
}

// NewSimulationResponse maps a simulation summary.
func NewSimulationResponse(s *service.SimulationSummary) SimulationResponse {
	tickets := make([]SimulatedTicketResponse, 0, len(s.Tickets))
	for _, t := range s.Tickets {
		item := SimulatedTicketResponse{
			TicketID: t.TicketID,
			Title:    t.Title,
			Category: string(t.Category),
			Severity: string(t.Severity),
			Status:   string(t.Status),
			Score:    t.Score,
		}
		if t.Err != nil {
			item.Error = t.Err.Error()
		}
		tickets = append(tickets, item)
	}
	return SimulationResponse{
		Requested:    s.Requested,
		Processed:    s.Processed,
		AutoResolved: s.AutoResolved,
		Escalated:    s.Escalated,
		Failed:       s.Failed,
		Tickets:      tickets,
	}
}
