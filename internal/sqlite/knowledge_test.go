package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

func newArticle(id, title string, category domain.TicketCategory, createdAt time.Time) *domain.KnowledgeArticle {
	return &domain.KnowledgeArticle{
		ID:        id,
		Title:     title,
		Content:   "Clear the cache and restart the app.",
		Tags:      []string{"crash", "cache"},
		Category:  category,
		CreatedAt: createdAt,
	}
}

func TestKnowledgeRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKnowledgeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newArticle("k1", "App crashes", domain.CategoryBug, time.Now())))

	got, err := repo.GetByID(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "App crashes", got.Title)
	require.Equal(t, domain.CategoryBug, got.Category)
	require.Equal(t, []string{"crash", "cache"}, got.Tags)

	byTitle, err := repo.GetByTitle(ctx, "app CRASHES")
	require.NoError(t, err)
	require.Equal(t, "k1", byTitle.ID)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByTitle(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKnowledgeRepository_EmptyTags(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKnowledgeRepository(db)
	ctx := context.Background()

	article := newArticle("k1", "No tags", domain.CategoryOther, time.Now())
	article.Tags = nil
	require.NoError(t, repo.Create(ctx, article))

	got, err := repo.GetByID(ctx, "k1")
	require.NoError(t, err)
	require.Empty(t, got.Tags)
}

func TestKnowledgeRepository_FindArticlesByCategory(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKnowledgeRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newArticle("k2", "Second bug", domain.CategoryBug, base.Add(time.Minute))))
	require.NoError(t, repo.Create(ctx, newArticle("k1", "First bug", domain.CategoryBug, base)))
	require.NoError(t, repo.Create(ctx, newArticle("k3", "Export data", domain.CategoryHowTo, base)))

	bugs, err := repo.FindArticlesByCategory(ctx, domain.CategoryBug)
	require.NoError(t, err)
	require.Len(t, bugs, 2)
	require.Equal(t, "k1", bugs[0].ID)
	require.Equal(t, "k2", bugs[1].ID)

	none, err := repo.FindArticlesByCategory(ctx, domain.CategoryAccountIssue)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestKnowledgeRepository_ListWithCategory(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKnowledgeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newArticle("k1", "Bug", domain.CategoryBug, time.Now())))
	require.NoError(t, repo.Create(ctx, newArticle("k2", "How", domain.CategoryHowTo, time.Now())))

	all, err := repo.List(ctx, repository.KnowledgeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	category := domain.CategoryHowTo
	filtered, err := repo.List(ctx, repository.KnowledgeFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "k2", filtered[0].ID)
}

func TestKnowledgeRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewKnowledgeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newArticle("k1", "Bug", domain.CategoryBug, time.Now())))
	require.NoError(t, repo.Delete(ctx, "k1"))
	require.ErrorIs(t, repo.Delete(ctx, "k1"), repository.ErrNotFound)
}
