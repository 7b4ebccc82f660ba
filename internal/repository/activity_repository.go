package repository

import (
	"context"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository persists attempt activity events. Events arrive in
// batches from the activity worker, never one row at a time.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// ActivityRecord is one queued event bound to its attempt.
type ActivityRecord struct {
	AttemptID uuid.UUID           `json:"attempt_id"`
	Event     model.ActivityEvent `json:"event"`
}

// InsertBatch writes a batch of activity events in a single round trip.
func (r *ActivityRepository) InsertBatch(ctx context.Context, records []ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO attempt_activity_logs (attempt_id, event_type, occurred_at, detail)
			 VALUES ($1, $2, $3, $4)`,
			rec.AttemptID, rec.Event.EventType, rec.Event.OccurredAt, rec.Event.Detail,
		)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListByAttempt retrieves the activity trail of an attempt, oldest first.
func (r *ActivityRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.ActivityEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT event_type, occurred_at, detail
		 FROM attempt_activity_logs
		 WHERE attempt_id = $1
		 ORDER BY occurred_at, id`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ActivityEvent
	for rows.Next() {
		var e model.ActivityEvent
		if err := rows.Scan(&e.EventType, &e.OccurredAt, &e.Detail); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
