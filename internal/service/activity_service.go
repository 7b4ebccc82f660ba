package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// ActivityService is the telemetry sink for exam-taking client events
// (tab switches, focus loss, fullscreen exits). Events are queued in
// Redis and persisted asynchronously by the activity worker; they are a
// pure side channel with no effect on grading.
type ActivityService struct {
	pool         *pgxpool.Pool
	attemptRepo  *repository.AttemptRepository
	activityRepo *repository.ActivityRepository
	rdb          *redis.Client
	monitor      *MonitorPublisher
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	activityRepo *repository.ActivityRepository,
	rdb *redis.Client,
	monitor *MonitorPublisher,
) *ActivityService {
	return &ActivityService{
		pool:         pool,
		attemptRepo:  attemptRepo,
		activityRepo: activityRepo,
		rdb:          rdb,
		monitor:      monitor,
	}
}

// LogActivity enqueues a batch of client events for async persistence
// and mirrors each one onto the live-monitor channel.
func (s *ActivityService) LogActivity(ctx context.Context, attemptID uuid.UUID, events []model.ActivityEvent) error {
	attempt, err := s.attemptRepo.GetByID(ctx, s.pool, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("load attempt: %w", err)
	}

	for _, event := range events {
		payload, err := json.Marshal(repository.ActivityRecord{
			AttemptID: attemptID,
			Event:     event,
		})
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := s.rdb.RPush(ctx, config.WorkerKey.AttemptActivityQueue, payload).Err(); err != nil {
			return fmt.Errorf("enqueue event: %w", err)
		}

		detail, _ := json.Marshal(event)
		s.monitor.Publish(ctx, model.MonitorEvent{
			Kind:      model.MonitorActivity,
			AttemptID: attemptID,
			ExamID:    attempt.ExamID,
			Detail:    detail,
		})
	}
	return nil
}

// ListActivity returns the persisted activity trail for admin review.
func (s *ActivityService) ListActivity(ctx context.Context, attemptID uuid.UUID) ([]model.ActivityEvent, error) {
	return s.activityRepo.ListByAttempt(ctx, attemptID)
}
