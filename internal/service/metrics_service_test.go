package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	"github.com/spec-kit/ticket-deflection/internal/repository/mocks"
)

func TestMetricsService_Overview(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("CountByClassification", mock.Anything).Return([]domain.TicketCount{
		{Category: domain.CategoryAccountIssue, Severity: domain.SeverityMedium, Status: domain.TicketStatusAutoResolved, Count: 3},
		{Category: domain.CategoryBug, Severity: domain.SeverityCritical, Status: domain.TicketStatusEscalated, Count: 2},
		{Category: domain.CategoryBug, Severity: domain.SeverityHigh, Status: domain.TicketStatusAutoResolved, Count: 1},
		{Status: domain.TicketStatusNew, Count: 2},
	}, nil)

	svc := NewMetricsService(tickets, nil, nil)
	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	want := &MetricsOverview{
		TotalTickets:   8,
		AutoResolved:   4,
		Escalated:      2,
		ResolutionRate: 0.5,
		ByCategory:     map[string]int{"AccountIssue": 3, "Bug": 3, "Unclassified": 2},
		BySeverity:     map[string]int{"Medium": 3, "Critical": 2, "High": 1, "Unclassified": 2},
		ByStatus:       map[string]int{"AutoResolved": 4, "Escalated": 2, "New": 2},
	}
	if diff := cmp.Diff(want, overview); diff != "" {
		t.Errorf("overview mismatch (-want +got):\n%s", diff)
	}
}

func TestMetricsService_EmptyOverview(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("CountByClassification", mock.Anything).Return(nil, nil)

	overview, err := NewMetricsService(tickets, nil, nil).Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, overview.TotalTickets)
	assert.Zero(t, overview.ResolutionRate)
	assert.NotNil(t, overview.ByCategory)
}

func TestMetricsService_OverviewError(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("CountByClassification", mock.Anything).Return(nil, errors.New("down"))

	_, err := NewMetricsService(tickets, nil, nil).Overview(context.Background())
	require.Error(t, err)
}

func TestMetricsService_RecentPaging(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("List", mock.Anything, repository.TicketFilter{Limit: 20, Offset: 5}).Return([]domain.Ticket{{ID: "t-1"}}, nil)
	activity := &mocks.ActivityRepository{}
	activity.On("List", mock.Anything, repository.ActivityFilter{Limit: 50}).Return([]domain.ActivityLogEntry{{ID: "a-1"}}, nil)

	svc := NewMetricsService(tickets, activity, observability.NewMetrics())
	ctx := context.Background()

	list, err := svc.RecentTickets(ctx, 0, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	entries, err := svc.RecentActivity(ctx, -1, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.GreaterOrEqual(t, svc.Runtime().UptimeSeconds, 0.0)
	tickets.AssertExpectations(t)
	activity.AssertExpectations(t)
}
