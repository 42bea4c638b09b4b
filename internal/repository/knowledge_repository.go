package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// KnowledgeFilter narrows article listings.
type KnowledgeFilter struct {
	Category *domain.TicketCategory
	Limit    int
	Offset   int
}

// KnowledgeRepository manages knowledge article persistence.
type KnowledgeRepository interface {
	Create(ctx context.Context, article *domain.KnowledgeArticle) error
	GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error)
	GetByTitle(ctx context.Context, title string) (*domain.KnowledgeArticle, error)
	List(ctx context.Context, filter KnowledgeFilter) ([]domain.KnowledgeArticle, error)
	// FindArticlesByCategory returns a fresh snapshot ordered by creation time.
	FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error)
	Delete(ctx context.Context, id string) error
}

type knowledgeRepository struct {
	pool *pgxpool.Pool
}

// NewKnowledgeRepository builds the Postgres-backed repository.
func NewKnowledgeRepository(pool *pgxpool.Pool) KnowledgeRepository {
	return &knowledgeRepository{pool: pool}
}

const articleColumns = `id, title, content, tags, category, created_at`

func (r *knowledgeRepository) Create(ctx context.Context, article *domain.KnowledgeArticle) error {
	const query = `
        INSERT INTO knowledge_articles (` + articleColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6)`
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		tags,
		article.Category,
		article.CreatedAt,
	)
	return err
}

func (r *knowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	const query = `SELECT ` + articleColumns + ` FROM knowledge_articles WHERE id=$1`
	article, err := scanArticle(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return article, nil
}

func (r *knowledgeRepository) GetByTitle(ctx context.Context, title string) (*domain.KnowledgeArticle, error) {
	const query = `
        SELECT ` + articleColumns + ` FROM knowledge_articles
        WHERE LOWER(title)=LOWER($1) ORDER BY created_at, id LIMIT 1`
	article, err := scanArticle(r.pool.QueryRow(ctx, query, title))
	if err != nil {
		return nil, notFound(err)
	}
	return article, nil
}

func (r *knowledgeRepository) List(ctx context.Context, filter KnowledgeFilter) ([]domain.KnowledgeArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM knowledge_articles`
	args := []any{}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" WHERE category=$%d", len(args))
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT %d OFFSET %d", limit, offset)
	return r.query(ctx, query, args...)
}

func (r *knowledgeRepository) FindArticlesByCategory(ctx context.Context, category domain.TicketCategory) ([]domain.KnowledgeArticle, error) {
	const query = `
        SELECT ` + articleColumns + ` FROM knowledge_articles
        WHERE category=$1 ORDER BY created_at, id`
	return r.query(ctx, query, category)
}

func (r *knowledgeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM knowledge_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *knowledgeRepository) query(ctx context.Context, query string, args ...any) ([]domain.KnowledgeArticle, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.KnowledgeArticle{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *article)
	}
	return result, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.KnowledgeArticle, error) {
	var article domain.KnowledgeArticle
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Tags,
		&article.Category,
		&article.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}
