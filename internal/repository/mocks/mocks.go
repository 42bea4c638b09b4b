package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

// TicketRepository is a mock for repository.TicketRepository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if ticket, ok := args.Get(0).(*domain.Ticket); ok {
		return ticket, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]domain.Ticket); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TicketRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TicketRepository) CountByClassification(ctx context.Context) ([]domain.TicketCount, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]domain.TicketCount); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// KnowledgeRepository is a mock for repository.KnowledgeRepository.
type KnowledgeRepository struct {
	mock.Mock
}

func (m *KnowledgeRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	args := m.Called(ctx, id)
	if article, ok := args.Get(0).(*domain.KnowledgeArticle); ok {
		return article, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnowledgeRepository) GetByTitle(ctx context.Context, title string) (*domain.KnowledgeArticle, error) {
	args := m.Called(ctx, title)
	if article, ok := args.Get(0).(*domain.KnowledgeArticle); ok {
		return article, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnowledgeRepository) List(ctx context.Context, filter repository.KnowledgeFilter) ([]domain.KnowledgeArticle, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]domain.KnowledgeArticle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnowledgeRepository) FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	args := m.Called(ctx, category)
	if list, ok := args.Get(0).([]domain.KnowledgeArticle); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, ticketID)
	if list, ok := args.Get(0).([]domain.ActivityLogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityLogEntry, error) {
	args := m.Called(ctx, filter)
	if list, ok := args.Get(0).([]domain.ActivityLogEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
