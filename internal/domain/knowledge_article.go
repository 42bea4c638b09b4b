package domain

import "time"

// KnowledgeArticle is help content used as a candidate resolution source.
type KnowledgeArticle struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	Category  TicketCategory
	CreatedAt time.Time
}
