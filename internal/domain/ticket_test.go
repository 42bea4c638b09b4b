package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, raw := range []string{"bug", "BUG", " Bug ", "howto", "AccountIssue", "featurerequest", "other"} {
		_, err := ParseCategory(raw)
		require.NoError(t, err, raw)
	}

	got, err := ParseCategory("howTo")
	require.NoError(t, err)
	assert.Equal(t, CategoryHowTo, got)

	_, err = ParseCategory("Billing")
	require.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseCategory("")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestParseSeverity(t *testing.T) {
	got, err := ParseSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, got)

	_, err = ParseSeverity("urgent")
	require.ErrorIs(t, err, ErrInvalidSeverity)
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Equal(t, -1, SeverityUnclassified.Rank())
}

func TestTicketStatusTransitionsOnlyMoveForward(t *testing.T) {
	assert.True(t, TicketStatusNew.CanTransitionTo(TicketStatusClassified))
	assert.True(t, TicketStatusClassified.CanTransitionTo(TicketStatusMatched))
	assert.True(t, TicketStatusMatched.CanTransitionTo(TicketStatusAutoResolved))
	assert.True(t, TicketStatusMatched.CanTransitionTo(TicketStatusEscalated))

	assert.False(t, TicketStatusNew.CanTransitionTo(TicketStatusMatched))
	assert.False(t, TicketStatusMatched.CanTransitionTo(TicketStatusClassified))
	assert.False(t, TicketStatusClassified.CanTransitionTo(TicketStatusNew))
	assert.False(t, TicketStatusAutoResolved.CanTransitionTo(TicketStatusEscalated))
	assert.False(t, TicketStatusEscalated.CanTransitionTo(TicketStatusAutoResolved))

	assert.True(t, TicketStatusEscalated.IsTerminal())
	assert.True(t, TicketStatusAutoResolved.IsTerminal())
	assert.False(t, TicketStatusMatched.IsTerminal())
}
