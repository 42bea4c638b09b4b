package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	"github.com/spec-kit/ticket-deflection/internal/repository/mocks"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

func newTestTicketService(t *testing.T) (*TicketService, *testStore) {
	t.Helper()
	store := newTestStore(t)
	return NewTicketService(TicketDependencies{
		TicketRepo:   store.tickets,
		ActivityRepo: store.activity,
		Clock:        stepClock(),
	}), store
}

func TestTicketService_CRUD(t *testing.T) {
	svc, _ := newTestTicketService(t)
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, TicketCreateInput{Title: ""})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	created, err := svc.CreateTicket(ctx, TicketCreateInput{Title: " Cannot log in ", Description: "locked", Source: "email"})
	require.NoError(t, err)
	assert.Equal(t, "Cannot log in", created.Title)
	assert.Equal(t, domain.TicketStatusNew, created.Status)

	got, err := svc.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	newTitle := "Cannot sign in"
	updated, err := svc.UpdateTicket(ctx, created.ID, TicketUpdateInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "email", updated.Source)

	blank := " "
	_, err = svc.UpdateTicket(ctx, created.ID, TicketUpdateInput{Title: &blank})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	list, err := svc.ListTickets(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteTicket(ctx, created.ID))
	_, err = svc.GetTicket(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(svc.DeleteTicket(ctx, created.ID), apperrors.CodeNotFound))
}

func TestTicketService_ClassifyTicket(t *testing.T) {
	svc, store := newTestTicketService(t)
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, TicketCreateInput{Title: "Locked out", Description: "I was locked out of my account"})
	require.NoError(t, err)

	classified, err := svc.ClassifyTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClassified, classified.Status)
	assert.Equal(t, domain.CategoryAccountIssue, classified.Category)
	assert.Equal(t, domain.SeverityMedium, classified.Severity)

	trail, err := svc.ListActivity(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.ActionClassified, trail[0].Action)

	again, err := svc.ClassifyTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClassified, again.Status)

	again.Status = domain.TicketStatusEscalated
	require.NoError(t, store.tickets.Update(ctx, again))
	_, err = svc.ClassifyTicket(ctx, created.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestTicketService_ClassifyMissing(t *testing.T) {
	svc, _ := newTestTicketService(t)

	_, err := svc.ClassifyTicket(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = svc.ListActivity(context.Background(), "missing")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestTicketService_ClassifyActivityFailure(t *testing.T) {
	ticket := &domain.Ticket{ID: "t-1", Title: "App crash", Status: domain.TicketStatusNew}
	tickets := &mocks.TicketRepository{}
	tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	tickets.On("Update", mock.Anything, mock.Anything).Return(nil)
	activity := &mocks.ActivityRepository{}
	activity.On("Append", mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	svc := NewTicketService(TicketDependencies{TicketRepo: tickets, ActivityRepo: activity})
	got, err := svc.ClassifyTicket(context.Background(), "t-1")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodePersistenceFailure))
	require.NotNil(t, got)
	assert.Equal(t, domain.TicketStatusClassified, got.Status)
}

func TestTicketService_WriteErrors(t *testing.T) {
	tickets := &mocks.TicketRepository{}
	tickets.On("Delete", mock.Anything, "gone").Return(repository.ErrNotFound)
	tickets.On("Delete", mock.Anything, "busy").Return(errors.New("locked"))

	svc := NewTicketService(TicketDependencies{TicketRepo: tickets})
	assert.True(t, apperrors.IsCode(svc.DeleteTicket(context.Background(), "gone"), apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(svc.DeleteTicket(context.Background(), "busy"), apperrors.CodePersistenceFailure))
}
