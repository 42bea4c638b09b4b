package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

// KnowledgeRepository implements repository.KnowledgeRepository for SQLite
type KnowledgeRepository struct {
	db *DB
}

// NewKnowledgeRepository creates a new KnowledgeRepository
func NewKnowledgeRepository(db *DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

const articleColumns = `id, title, content, tags, category, created_at`

// Create inserts a knowledge article. Tags are stored comma-joined.
func (r *KnowledgeRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	query := `
		INSERT INTO knowledge_articles (` + articleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		strings.Join(article.Tags, ","),
		string(article.Category),
		article.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	return nil
}

// GetByID retrieves an article by ID
func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles WHERE id = ?`
	return r.get(ctx, query, id)
}

// GetByTitle retrieves the oldest article with the given title, ignoring case
func (r *KnowledgeRepository) GetByTitle(ctx context.Context, title string) (*domain.KnowledgeArticle, error) {
	query := `
		SELECT ` + articleColumns + ` FROM knowledge_articles
		WHERE title = ? COLLATE NOCASE
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	return r.get(ctx, query, title)
}

// List returns articles oldest first, optionally filtered by category
func (r *KnowledgeRepository) List(ctx context.Context, filter repository.KnowledgeFilter) ([]domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles`
	args := []interface{}{}

	if filter.Category != nil {
		query += " WHERE category = ?"
		args = append(args, string(*filter.Category))
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query += " ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.query(ctx, query, args...)
}

// FindArticlesByCategory returns every article in a category, oldest first
func (r *KnowledgeRepository) FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	query := `
		SELECT ` + articleColumns + ` FROM knowledge_articles
		WHERE category = ?
		ORDER BY created_at ASC, id ASC
	`
	return r.query(ctx, query, string(category))
}

// Delete removes an article
func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return requireAffected(result)
}

func (r *KnowledgeRepository) get(ctx context.Context, query string, args ...interface{}) (*domain.KnowledgeArticle, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return article, nil
}

func (r *KnowledgeRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.KnowledgeArticle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := []domain.KnowledgeArticle{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

func scanArticle(row rowScanner) (*domain.KnowledgeArticle, error) {
	var (
		article domain.KnowledgeArticle
		tags    string
	)
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&tags,
		&article.Category,
		&article.CreatedAt,
	); err != nil {
		return nil, err
	}
	article.Tags = splitTags(tags)
	return &article, nil
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
