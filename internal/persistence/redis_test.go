package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/config"
	"github.com/spec-kit/ticket-deflection/internal/domain"
)

func TestArticleSnapshotEncoding(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	articles := []domain.KnowledgeArticle{
		{ID: "k1", Title: "Reset password", Content: "Use the link.", Tags: []string{"password", "reset"}, Category: domain.CategoryAccountIssue, CreatedAt: created},
		{ID: "k2", Title: "Locked out", Content: "Wait 15 minutes.", Tags: []string{}, Category: domain.CategoryAccountIssue, CreatedAt: created.Add(time.Hour)},
	}

	raw, err := EncodeArticles(articles)
	require.NoError(t, err)

	decoded, err := DecodeArticles(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(articles, decoded); diff != "" {
		t.Errorf("decoded snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeArticles_Invalid(t *testing.T) {
	_, err := DecodeArticles([]byte("not json"))
	require.Error(t, err)
}

func TestKnowledgeCacheKey(t *testing.T) {
	assert.Equal(t, "deflection:knowledge:HowTo", KnowledgeCacheKey(domain.CategoryHowTo))
}

func TestDisabledRedis(t *testing.T) {
	r := NewRedis(config.RedisConfig{Enabled: false}, zap.NewNop())
	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(context.Background()))
	assert.Nil(t, NewKnowledgeCache(r, time.Minute))
	r.Close()
}

func TestPostgres_PingWithoutPool(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.Error(t, pg.Ping(context.Background()))
	pg.Close()
}
