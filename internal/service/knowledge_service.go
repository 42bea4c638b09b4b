package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/events"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// KnowledgeCache holds per-category article snapshots.
type KnowledgeCache interface {
	Get(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, bool, error)
	Set(ctx context.Context, category domain.TicketCategory, articles []domain.KnowledgeArticle) error
	Invalidate(ctx context.Context, category domain.TicketCategory) error
}

// KnowledgeService manages knowledge articles and serves matcher snapshots.
type KnowledgeService struct {
	articles   repository.KnowledgeRepository
	cache      KnowledgeCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        Clock
}

// KnowledgeDependencies bundles collaborators for the knowledge service.
type KnowledgeDependencies struct {
	KnowledgeRepo repository.KnowledgeRepository
	Cache         KnowledgeCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         Clock
}

// KnowledgeCreateInput describes a new article. Category is the raw name.
type KnowledgeCreateInput struct {
	Title    string
	Content  string
	Tags     []string
	Category string
}

// NewKnowledgeService constructs the service. When a dispatcher is supplied the
// service subscribes its cache invalidation to article change events.
func NewKnowledgeService(deps KnowledgeDependencies) *KnowledgeService {
	s := &KnowledgeService{
		articles:   deps.KnowledgeRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.dispatcher != nil {
		s.dispatcher.Subscribe(events.EventKnowledgeArticleChanged, s.handleArticleChanged)
	}
	return s
}

// CreateArticle validates and stores an article.
func (s *KnowledgeService) CreateArticle(ctx context.Context, input KnowledgeCreateInput, operator *domain.Operator) (*domain.KnowledgeArticle, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, apperrors.NewInvalidCategory(input.Category)
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content required", nil)
	}

	article := &domain.KnowledgeArticle{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      NormalizeTags(input.Tags),
		Category:  category,
		CreatedAt: s.now(),
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.NewPersistenceFailure("create article", err)
	}
	s.articleChanged(ctx, article, events.KnowledgeCreated, operator)
	return article, nil
}

// ImportArticle stores an article unless one with the same title exists.
// It reports whether a new article was created.
func (s *KnowledgeService) ImportArticle(ctx context.Context, input KnowledgeCreateInput) (bool, error) {
	_, err := s.articles.GetByTitle(ctx, strings.TrimSpace(input.Title))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, apperrors.NewPersistenceFailure("find article", err)
	}
	if _, err := s.CreateArticle(ctx, input, nil); err != nil {
		return false, err
	}
	return true, nil
}

// GetArticle fetches one article.
func (s *KnowledgeService) GetArticle(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	article, err := s.articles.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("knowledge article", map[string]any{"id": id})
	}
	return article, err
}

// ListArticles lists articles, optionally restricted to a category name.
func (s *KnowledgeService) ListArticles(ctx context.Context, rawCategory string, limit, offset int) ([]domain.KnowledgeArticle, error) {
	filter := repository.KnowledgeFilter{Limit: limit, Offset: offset}
	if strings.TrimSpace(rawCategory) != "" {
		category, err := domain.ParseCategory(rawCategory)
		if err != nil {
			return nil, apperrors.NewInvalidCategory(rawCategory)
		}
		filter.Category = &category
	}
	return s.articles.List(ctx, filter)
}

// DeleteArticle removes an article.
func (s *KnowledgeService) DeleteArticle(ctx context.Context, id string, operator *domain.Operator) error {
	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("knowledge article", map[string]any{"id": id})
		}
		return apperrors.NewPersistenceFailure("delete article", err)
	}
	s.articleChanged(ctx, article, events.KnowledgeDeleted, operator)
	return nil
}

// FindArticlesByCategory returns a private snapshot of a category's articles,
// reading through the cache when one is configured.
func (s *KnowledgeService) FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, category)
		if err != nil {
			s.logger.Warn("knowledge cache read failed", zap.String("category", string(category)), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	articles, err := s.articles.FindArticlesByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, category, articles); err != nil {
			s.logger.Warn("knowledge cache write failed", zap.String("category", string(category)), zap.Error(err))
		}
	}
	return articles, nil
}

func (s *KnowledgeService) articleChanged(ctx context.Context, article *domain.KnowledgeArticle, change events.KnowledgeChange, operator *domain.Operator) {
	if s.dispatcher == nil {
		s.invalidate(ctx, article.Category)
		return
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:  events.EventKnowledgeArticleChanged,
		Actor: operatorActor(operator),
		Payload: events.KnowledgeArticleChangedPayload{
			ArticleID: article.ID,
			Category:  article.Category,
			Change:    change,
		},
	})
}

func (s *KnowledgeService) handleArticleChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.KnowledgeArticleChangedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("KnowledgeArticleChanged",
		zap.String("article_id", payload.ArticleID),
		zap.String("category", string(payload.Category)),
		zap.String("change", string(payload.Change)))
	return s.invalidate(ctx, payload.Category)
}

func (s *KnowledgeService) invalidate(ctx context.Context, category domain.TicketCategory) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, category); err != nil {
		s.logger.Warn("knowledge cache invalidation failed", zap.String("category", string(category)), zap.Error(err))
		return err
	}
	return nil
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTags parses a comma-separated tag list.
func SplitTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
