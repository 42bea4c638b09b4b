package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
	apperrors "github.com/spec-kit/ticket-deflection/pkg/util/errorutil"
)

// Clock returns the current time.
type Clock func() time.Time

// ActivityRecorder collects the audit entries of a single pipeline run.
// It is not safe for concurrent use; each run owns its own recorder.
type ActivityRecorder struct {
	store   repository.ActivityRepository
	now     Clock
	entries []domain.ActivityLogEntry
	last    time.Time
}

// NewActivityRecorder builds a recorder. A nil store keeps entries in memory only.
func NewActivityRecorder(store repository.ActivityRepository, now Clock) *ActivityRecorder {
	if now == nil {
		now = time.Now
	}
	return &ActivityRecorder{store: store, now: now}
}

// Record appends an entry to the run log and then to the store. The entry is
// always returned; a store failure comes back as a PERSISTENCE_FAILURE error.
func (r *ActivityRecorder) Record(ctx context.Context, ticketID string, action domain.ActivityAction, details string) (domain.ActivityLogEntry, error) {
	ts := r.now()
	if ts.Before(r.last) {
		ts = r.last
	}
	r.last = ts

	entry := domain.ActivityLogEntry{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Action:    action,
		Details:   details,
		Timestamp: ts,
	}
	r.entries = append(r.entries, entry)

	if r.store == nil {
		return entry, nil
	}
	stored := entry
	if err := r.store.Append(ctx, &stored); err != nil {
		return entry, apperrors.NewPersistenceFailure("append activity", err)
	}
	return entry, nil
}

// Entries returns a copy of the entries in recorded order.
func (r *ActivityRecorder) Entries() []domain.ActivityLogEntry {
	out := make([]domain.ActivityLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
