package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/sqlite"
)

type testStore struct {
	db        *sqlite.DB
	tickets   *sqlite.TicketRepository
	knowledge *sqlite.KnowledgeRepository
	activity  *sqlite.ActivityRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return &testStore{
		db:        db,
		tickets:   sqlite.NewTicketRepository(db),
		knowledge: sqlite.NewKnowledgeRepository(db),
		activity:  sqlite.NewActivityRepository(db),
	}
}

// stepClock advances one second per call.
func stepClock() Clock {
	var mu sync.Mutex
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func seedArticles(t *testing.T, store *testStore) {
	t.Helper()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	articles := []domain.KnowledgeArticle{
		{
			ID:       "kb-password",
			Title:    "Reset your password",
			Content:  "If you forgot your account password, use the reset link on the login page.",
			Tags:     []string{"password", "reset", "forgot"},
			Category: domain.CategoryAccountIssue,
		},
		{
			ID:       "kb-outage",
			Title:    "Production outage checklist",
			Content:  "During a production outage with data loss, the environment is restored from backup.",
			Tags:     []string{"production", "outage"},
			Category: domain.CategoryBug,
		},
		{
			ID:       "kb-invite",
			Title:    "Invite teammates",
			Content:  "Open settings and send an invite to teammates. Data is shared across the workspace.",
			Tags:     []string{"invite", "teammates"},
			Category: domain.CategoryHowTo,
		},
	}
	for i := range articles {
		articles[i].CreatedAt = created.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.knowledge.Create(context.Background(), &articles[i]))
	}
}

// fakeCache is an in-memory KnowledgeCache.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[domain.TicketCategory][]domain.KnowledgeArticle
	gets        int
	hits        int
	invalidated []domain.TicketCategory
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[domain.TicketCategory][]domain.KnowledgeArticle{}}
}

func (c *fakeCache) Get(_ context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	articles, ok := c.entries[category]
	if ok {
		c.hits++
	}
	return articles, ok, nil
}

func (c *fakeCache) Set(_ context.Context, category domain.TicketCategory, articles []domain.KnowledgeArticle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[category] = articles
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, category domain.TicketCategory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, category)
	c.invalidated = append(c.invalidated, category)
	return nil
}
