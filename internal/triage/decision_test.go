package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

func matchWithScore(score float64) Match {
	return Match{
		Article: &domain.KnowledgeArticle{ID: "kb-1", Title: "Reset your password", Content: "Use the forgot password link."},
		Score:   score,
	}
}

func TestDecisionEngine_Threshold(t *testing.T) {
	assert.Equal(t, DefaultAutoResolveThreshold, NewDecisionEngine(0).Threshold())
	assert.Equal(t, DefaultAutoResolveThreshold, NewDecisionEngine(-1).Threshold())
	assert.Equal(t, DefaultAutoResolveThreshold, NewDecisionEngine(1.5).Threshold())
	assert.Equal(t, 0.7, NewDecisionEngine(0.7).Threshold())
	assert.Equal(t, 1.0, NewDecisionEngine(1).Threshold())
}

func TestDecisionEngine_Decide(t *testing.T) {
	engine := NewDecisionEngine(0.5)

	tests := []struct {
		name     string
		severity domain.TicketSeverity
		score    float64
		want     domain.TicketStatus
	}{
		{"high above threshold", domain.SeverityHigh, 0.6, domain.TicketStatusAutoResolved},
		{"exactly threshold", domain.SeverityMedium, 0.5, domain.TicketStatusAutoResolved},
		{"low perfect", domain.SeverityLow, 1.0, domain.TicketStatusAutoResolved},
		{"just below threshold", domain.SeverityLow, 0.49, domain.TicketStatusEscalated},
		{"zero score", domain.SeverityMedium, 0, domain.TicketStatusEscalated},
		{"critical above threshold", domain.SeverityCritical, 0.6, domain.TicketStatusEscalated},
		{"critical perfect", domain.SeverityCritical, 1.0, domain.TicketStatusEscalated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Decide(tt.severity, matchWithScore(tt.score))
			assert.Equal(t, tt.want, got.Status)
			if tt.want == domain.TicketStatusAutoResolved {
				require.NotNil(t, got.Resolution)
				assert.Contains(t, *got.Resolution, "Reset your password")
				assert.True(t, got.AutoResolved())
			} else {
				assert.Nil(t, got.Resolution)
				assert.False(t, got.AutoResolved())
			}
		})
	}
}

func TestDecisionEngine_NoArticleEscalates(t *testing.T) {
	engine := NewDecisionEngine(0.5)
	got := engine.Decide(domain.SeverityLow, Match{Score: 0.9})
	assert.Equal(t, domain.TicketStatusEscalated, got.Status)
	assert.Nil(t, got.Resolution)
}

func TestDecisionEngine_CriticalNeverAutoResolves(t *testing.T) {
	engine := NewDecisionEngine(0.01)
	for score := 0.0; score <= 1.0; score += 0.05 {
		got := engine.Decide(domain.SeverityCritical, matchWithScore(score))
		assert.Equal(t, domain.TicketStatusEscalated, got.Status, "score %.2f", score)
	}
}
