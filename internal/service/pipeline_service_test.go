package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/events"
	"github.com/spec-kit/ticket-deflection/internal/observability"
	"github.com/spec-kit/ticket-deflection/internal/repository/mocks"
	"github.com/spec-kit/ticket-deflection/internal/triage"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

func newTestPipeline(t *testing.T, dispatcher events.Dispatcher) (*PipelineService, *testStore) {
	t.Helper()

	store := newTestStore(t)
	seedArticles(t, store)
	knowledge := NewKnowledgeService(KnowledgeDependencies{KnowledgeRepo: store.knowledge})

	return NewPipelineService(PipelineDependencies{
		TicketRepo:   store.tickets,
		Articles:     knowledge,
		ActivityRepo: store.activity,
		Dispatcher:   dispatcher,
		Metrics:      observability.NewMetrics(),
		Clock:        stepClock(),
	}), store
}

func actions(entries []domain.ActivityLogEntry) []domain.ActivityAction {
	out := make([]domain.ActivityAction, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func TestProcessTicket_AutoResolvesPasswordReset(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var deflected []events.Event
	dispatcher.Subscribe(events.EventTicketDeflected, func(_ context.Context, e events.Event) error {
		deflected = append(deflected, e)
		return nil
	})
	svc, store := newTestPipeline(t, dispatcher)
	ctx := context.Background()

	result, err := svc.ProcessTicket(ctx, SubmitInput{
		Title:       "Forgot account password",
		Description: "Please reset my login password",
		Source:      "web",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryAccountIssue, result.Category)
	assert.Equal(t, domain.SeverityMedium, result.Severity)
	assert.Equal(t, domain.TicketStatusAutoResolved, result.Ticket.Status)
	require.NotNil(t, result.MatchedArticleTitle)
	assert.Equal(t, "Reset your password", *result.MatchedArticleTitle)
	assert.InDelta(t, 1.0, result.MatchScore, 1e-9)
	require.NotNil(t, result.Ticket.Resolution)
	assert.Contains(t, *result.Ticket.Resolution, "Reset your password")

	assert.Equal(t, []domain.ActivityAction{
		domain.ActionClassified, domain.ActionMatched, domain.ActionAutoResolved,
	}, actions(result.ActivityLog))
	for i, entry := range result.ActivityLog {
		assert.Equal(t, result.Ticket.ID, entry.TicketID)
		if i > 0 {
			assert.False(t, entry.Timestamp.Before(result.ActivityLog[i-1].Timestamp))
		}
	}

	stored, err := store.tickets.GetByID(ctx, result.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusAutoResolved, stored.Status)
	assert.Equal(t, "web", stored.Source)

	trail, err := store.activity.ListByTicket(ctx, result.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, actions(result.ActivityLog), actions(trail))

	require.Len(t, deflected, 1)
	assert.Equal(t, result.Ticket.ID, deflected[0].TicketID)
	assert.Equal(t, domain.SubjectTypeSystem, deflected[0].Actor.Type)
}

func TestProcessTicket_CriticalAlwaysEscalates(t *testing.T) {
	store := newTestStore(t)
	seedArticles(t, store)
	rules := append([]triage.Rule{{
		Name:     "outage",
		Keywords: []string{"outage"},
		Category: domain.CategoryBug,
		Severity: domain.SeverityCritical,
	}}, triage.DefaultRules()...)
	svc := NewPipelineService(PipelineDependencies{
		TicketRepo:   store.tickets,
		Articles:     NewKnowledgeService(KnowledgeDependencies{KnowledgeRepo: store.knowledge}),
		ActivityRepo: store.activity,
		Classifier:   triage.NewClassifier(rules),
		Clock:        stepClock(),
	})

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{
		Title:       "Production outage",
		Description: "Our production environment is down with data loss",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryBug, result.Category)
	assert.Equal(t, domain.SeverityCritical, result.Severity)
	assert.Equal(t, domain.TicketStatusEscalated, result.Ticket.Status)
	assert.Nil(t, result.Ticket.Resolution)
	require.NotNil(t, result.MatchedArticleTitle)
	assert.Equal(t, "Production outage checklist", *result.MatchedArticleTitle)
	require.Len(t, result.ActivityLog, 3)
	assert.Contains(t, result.ActivityLog[2].Details, "critical")
}

func TestProcessTicket_DefaultRulesNeverProduceCritical(t *testing.T) {
	svc, _ := newTestPipeline(t, nil)

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{
		Title:       "Outage error on checkout",
		Description: "payments return an error page",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBug, result.Category)
	assert.Equal(t, domain.SeverityHigh, result.Severity)
}

func TestProcessTicket_NoMatchEscalates(t *testing.T) {
	svc, _ := newTestPipeline(t, nil)

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{
		Title:       "Pricing question",
		Description: "Do you offer discounts for non-profit organizations?",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryOther, result.Category)
	assert.Equal(t, domain.TicketStatusEscalated, result.Ticket.Status)
	assert.Nil(t, result.MatchedArticleTitle)
	assert.Zero(t, result.MatchScore)
	assert.Equal(t, []domain.ActivityAction{
		domain.ActionClassified, domain.ActionMatched, domain.ActionEscalated,
	}, actions(result.ActivityLog))
	assert.Equal(t, "No matching knowledge article found", result.ActivityLog[1].Details)
}

func TestProcessTicket_LowScoreEscalates(t *testing.T) {
	svc, _ := newTestPipeline(t, nil)

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{
		Title:       "Export question",
		Description: "How do I export data to a spreadsheet?",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryHowTo, result.Category)
	assert.Equal(t, domain.SeverityLow, result.Severity)
	require.NotNil(t, result.MatchedArticleTitle)
	assert.Equal(t, "Invite teammates", *result.MatchedArticleTitle)
	assert.Less(t, result.MatchScore, 0.5)
	assert.Greater(t, result.MatchScore, 0.0)
	assert.Equal(t, domain.TicketStatusEscalated, result.Ticket.Status)
	assert.Contains(t, result.ActivityLog[2].Details, "below threshold")
}

func TestProcessTicket_EmptyTitleStillRuns(t *testing.T) {
	svc, store := newTestPipeline(t, nil)
	ctx := context.Background()

	result, err := svc.ProcessTicket(ctx, SubmitInput{Title: "", Description: "How do I export data?"})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.CategoryHowTo, result.Category)
	assert.Equal(t, domain.SeverityLow, result.Severity)
	assert.Equal(t, "", result.Ticket.Title)
	assert.Equal(t, []domain.ActivityAction{
		domain.ActionClassified, domain.ActionMatched, domain.ActionEscalated,
	}, actions(result.ActivityLog))

	stored, err := store.tickets.GetByID(ctx, result.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusEscalated, stored.Status)
}

func TestProcessTicket_CreateFailure(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := NewPipelineService(PipelineDependencies{TicketRepo: tickets})

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{Title: "App crash"})
	assert.Nil(t, result)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePersistenceFailure))
}

func TestProcessTicket_UpdateFailureKeepsLastCommittedState(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
	tickets.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	tickets.On("Update", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	activity := &mocks.ActivityRepository{}
	activity.On("Append", mock.Anything, mock.Anything).Return(nil)

	metrics := observability.NewMetrics()
	svc := NewPipelineService(PipelineDependencies{
		TicketRepo:   tickets,
		ActivityRepo: activity,
		Metrics:      metrics,
		Clock:        stepClock(),
	})

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{Title: "App crash on login"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePersistenceFailure))
	require.NotNil(t, result)
	assert.Equal(t, domain.TicketStatusClassified, result.Ticket.Status)
	assert.Equal(t, domain.CategoryBug, result.Category)
	assert.Equal(t, []domain.ActivityAction{domain.ActionClassified}, actions(result.ActivityLog))
	assert.Equal(t, int64(1), metrics.Snapshot().PipelineOutcomes["Aborted"])
	tickets.AssertNumberOfCalls(t, "Update", 2)
}

func TestProcessTicket_ActivityFailureStillCompletes(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
	tickets.On("Update", mock.Anything, mock.Anything).Return(nil)
	activity := &mocks.ActivityRepository{}
	activity.On("Append", mock.Anything, mock.Anything).Return(errors.New("log store offline"))

	svc := NewPipelineService(PipelineDependencies{
		TicketRepo:   tickets,
		ActivityRepo: activity,
		Clock:        stepClock(),
	})

	result, err := svc.ProcessTicket(context.Background(), SubmitInput{Title: "Pricing question"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePersistenceFailure))
	require.NotNil(t, result)
	assert.Equal(t, domain.TicketStatusEscalated, result.Ticket.Status)
	assert.Len(t, result.ActivityLog, 3)
	activity.AssertNumberOfCalls(t, "Append", 3)
}

type panickingFinder struct{}

func (panickingFinder) FindArticlesByCategory(context.Context, domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	panic("snapshot corrupted")
}

type failingFinder struct{}

func (failingFinder) FindArticlesByCategory(context.Context, domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	return nil, errors.New("knowledge store offline")
}

func TestProcessTicket_StageFaults(t *testing.T) {
	tests := []struct {
		name   string
		finder ArticleFinder
		code   string
	}{
		{name: "panic becomes internal error", finder: panickingFinder{}, code: apperrors.CodeInternal},
		{name: "lookup failure", finder: failingFinder{}, code: apperrors.CodePersistenceFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets := &mocks.TicketRepository{}
			tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
			tickets.On("Update", mock.Anything, mock.Anything).Return(nil)
			activity := &mocks.ActivityRepository{}
			activity.On("Append", mock.Anything, mock.Anything).Return(nil)

			svc := NewPipelineService(PipelineDependencies{
				TicketRepo:   tickets,
				Articles:     tt.finder,
				ActivityRepo: activity,
			})

			result, err := svc.ProcessTicket(context.Background(), SubmitInput{Title: "How do I export?"})
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tt.code))
			require.NotNil(t, result)
			assert.Equal(t, domain.TicketStatusClassified, result.Ticket.Status)
			assert.Len(t, result.ActivityLog, 1)
		})
	}
}
