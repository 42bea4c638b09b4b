package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidCategory is returned when a category string cannot be parsed.
var ErrInvalidCategory = errors.New("invalid category")

// ErrInvalidSeverity is returned when a severity string cannot be parsed.
var ErrInvalidSeverity = errors.New("invalid severity")

// TicketCategory enumerates the classifier's output categories.
type TicketCategory string

const (
	CategoryUnclassified   TicketCategory = ""
	CategoryBug            TicketCategory = "Bug"
	CategoryFeatureRequest TicketCategory = "FeatureRequest"
	CategoryHowTo          TicketCategory = "HowTo"
	CategoryAccountIssue   TicketCategory = "AccountIssue"
	CategoryOther          TicketCategory = "Other"
)

// Categories lists every classifiable category in declaration order.
var Categories = []TicketCategory{
	CategoryBug,
	CategoryFeatureRequest,
	CategoryHowTo,
	CategoryAccountIssue,
	CategoryOther,
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(raw string) (TicketCategory, error) {
	needle := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), needle) {
			return c, nil
		}
	}
	return CategoryUnclassified, ErrInvalidCategory
}

// TicketSeverity enumerates urgency levels.
type TicketSeverity string

const (
	SeverityUnclassified TicketSeverity = ""
	SeverityLow          TicketSeverity = "Low"
	SeverityMedium       TicketSeverity = "Medium"
	SeverityHigh         TicketSeverity = "High"
	SeverityCritical     TicketSeverity = "Critical"
)

var severityRanks = map[TicketSeverity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank orders severities from Low (0) to Critical (3). Unknown values rank -1.
func (s TicketSeverity) Rank() int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return -1
}

// ParseSeverity resolves a severity name case-insensitively.
func ParseSeverity(raw string) (TicketSeverity, error) {
	needle := strings.TrimSpace(raw)
	for s := range severityRanks {
		if strings.EqualFold(string(s), needle) {
			return s, nil
		}
	}
	return SeverityUnclassified, ErrInvalidSeverity
}

// TicketStatus enumerates pipeline states for tickets.
type TicketStatus string

const (
	TicketStatusNew          TicketStatus = "New"
	TicketStatusClassified   TicketStatus = "Classified"
	TicketStatusMatched      TicketStatus = "Matched"
	TicketStatusAutoResolved TicketStatus = "AutoResolved"
	TicketStatusEscalated    TicketStatus = "Escalated"
)

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusNew:          {TicketStatusClassified},
	TicketStatusClassified:   {TicketStatusMatched},
	TicketStatusMatched:      {TicketStatusAutoResolved, TicketStatusEscalated},
	TicketStatusAutoResolved: {},
	TicketStatusEscalated:    {},
}

// CanTransitionTo reports whether next is a legal forward step from s.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no automatic transition leaves s.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusAutoResolved || s == TicketStatusEscalated
}

// Ticket is the aggregate for support requests flowing through deflection.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    TicketCategory
	Severity    TicketSeverity
	Status      TicketStatus
	Resolution  *string
	Source      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Text returns the combined title and description the classifier and matcher read.
func (t Ticket) Text() string {
	return t.Title + " " + t.Description
}

// TicketCount is one group of the category/severity/status aggregation.
type TicketCount struct {
	Category TicketCategory
	Severity TicketSeverity
	Status   TicketStatus
	Count    int
}
