package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-deflection/internal/api/dto"
	"github.com/spec-kit/ticket-deflection/internal/auth"
	"github.com/spec-kit/ticket-deflection/internal/service"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// KnowledgeHandler manages knowledge base endpoints.
type KnowledgeHandler struct {
	service *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: knowledgeService}
}

// CreateArticle POST /api/knowledge.
func (h *KnowledgeHandler) CreateArticle(c *fiber.Ctx) error {
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.CreateArticle(c.UserContext(), service.KnowledgeCreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
	}, auth.OperatorFromContext(c))
	if err != nil {
		return err
	}
	c.Location("/api/knowledge/" + article.ID)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// ListArticles GET /api/knowledge.
func (h *KnowledgeHandler) ListArticles(c *fiber.Ctx) error {
	limit, offset := parsePage(c, 100)
	articles, err := h.service.ListArticles(c.UserContext(), c.Query("category"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.NewArticleResponse(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle GET /api/knowledge/:id.
func (h *KnowledgeHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArticleResponse(article)})
}

// DeleteArticle DELETE /api/knowledge/:id.
func (h *KnowledgeHandler) DeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), c.Params("id"), auth.OperatorFromContext(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
