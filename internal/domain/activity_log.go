package domain

import "time"

// ActivityAction labels a pipeline stage outcome.
type ActivityAction string

const (
	ActionClassified   ActivityAction = "Classified"
	ActionMatched      ActivityAction = "Matched"
	ActionAutoResolved ActivityAction = "AutoResolved"
	ActionEscalated    ActivityAction = "Escalated"
)

// ActivityLogEntry is an immutable audit trail entry for one ticket.
type ActivityLogEntry struct {
	ID        string
	TicketID  string
	Action    ActivityAction
	Details   string
	Timestamp time.Time
}
