package sqlite

import (
	"context"
	"fmt"

	"github.com/spec-kit/ticket-deflection/internal/domain"
	"github.com/spec-kit/ticket-deflection/internal/repository"
)

// ActivityRepository implements repository.ActivityRepository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append inserts an activity entry
func (r *ActivityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_logs (id, ticket_id, action, details, logged_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.TicketID,
		string(entry.Action),
		entry.Details,
		entry.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListByTicket returns a ticket's entries in the order they were recorded
func (r *ActivityRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	query := `
		SELECT id, ticket_id, action, details, logged_at
		FROM activity_logs
		WHERE ticket_id = ?
		ORDER BY logged_at ASC, rowid ASC
	`
	return r.query(ctx, query, ticketID)
}

// List returns the newest entries across all tickets
func (r *ActivityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.ActivityLogEntry, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := `
		SELECT id, ticket_id, action, details, logged_at
		FROM activity_logs
		ORDER BY logged_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`
	return r.query(ctx, query, limit, offset)
}

func (r *ActivityRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.ActivityLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []domain.ActivityLogEntry{}
	for rows.Next() {
		var entry domain.ActivityLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Action,
			&entry.Details,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
