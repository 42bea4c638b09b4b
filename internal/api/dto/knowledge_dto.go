package dto

import (
	"time"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// CreateArticleRequest payload for a knowledge article.
type CreateArticleRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// ArticleResponse is the article view.
type ArticleResponse struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Content   string                `json:"content"`
	Tags      []string              `json:"tags"`
	Category  domain.TicketCategory `json:"category"`
	CreatedAt time.Time             `json:"created_at"`
}

// NewArticleResponse maps a domain article.
func NewArticleResponse(article *domain.KnowledgeArticle) ArticleResponse {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}
	return ArticleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Tags:      tags,
		Category:  article.Category,
		CreatedAt: article.CreatedAt,
	}
}
