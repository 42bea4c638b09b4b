package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-deflection/internal/domain"
)

// ActivityFilter captures paging for the global activity feed.
type ActivityFilter struct {
	Limit  int
	Offset int
}

// ActivityRepository stores append-only audit entries.
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLogEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error)
	List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityLogEntry, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds the Postgres-backed repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	const query = `
        INSERT INTO activity_logs (id, ticket_id, action, details, logged_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.TicketID,
		entry.Action,
		entry.Details,
		entry.Timestamp,
	)
	return err
}

func (r *activityRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ActivityLogEntry, error) {
	const query = `
        SELECT id, ticket_id, action, details, logged_at
        FROM activity_logs WHERE ticket_id=$1 ORDER BY logged_at ASC, seq ASC`
	return r.query(ctx, query, ticketID)
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityLogEntry, error) {
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
        SELECT id, ticket_id, action, details, logged_at
        FROM activity_logs ORDER BY logged_at DESC, seq DESC LIMIT %d OFFSET %d`, limit, offset)
	return r.query(ctx, query)
}

func (r *activityRepository) query(ctx context.Context, query string, args ...any) ([]domain.ActivityLogEntry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ActivityLogEntry{}
	for rows.Next() {
		var entry domain.ActivityLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Action,
			&entry.Details,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
