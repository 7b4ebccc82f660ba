package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ActivityBatchSize    = 100
	ActivityBatchTimeout = 2 * time.Second
	ActivityPollTimeout  = 1 * time.Second
)

// ActivityWorker drains the attempt activity queue and batch-inserts the
// events into PostgreSQL. The HTTP sink only touches Redis, so telemetry
// bursts (a whole class switching tabs at once) never hit the database
// one row at a time.
type ActivityWorker struct {
	activityRepo *repository.ActivityRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewActivityWorker creates a new ActivityWorker.
func NewActivityWorker(activityRepo *repository.ActivityRepository, rdb *redis.Client, log zerolog.Logger) *ActivityWorker {
	return &ActivityWorker{
		activityRepo: activityRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "activity_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *ActivityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	batch := make([]repository.ActivityRecord, 0, ActivityBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ActivityBatchSize || time.Since(lastFlush) >= ActivityBatchTimeout) {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Flush the partial batch, then drain whatever is queued.
			w.flushSafe(context.Background(), batch)
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, ActivityPollTimeout, config.WorkerKey.AttemptActivityQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var record repository.ActivityRecord
		if err := json.Unmarshal([]byte(result[1]), &record); err != nil {
			w.log.Error().Err(err).Msg("Unmarshal error, dropping event")
			continue
		}
		batch = append(batch, record)
	}
}

// flushSafe writes a batch and requeues it on failure so events survive
// a transient database outage.
func (w *ActivityWorker) flushSafe(ctx context.Context, batch []repository.ActivityRecord) {
	if len(batch) == 0 {
		return
	}

	if err := w.activityRepo.InsertBatch(ctx, batch); err != nil {
		w.log.Error().Err(err).Int("events", len(batch)).Msg("Insert error, requeueing")
		for _, record := range batch {
			payload, merr := json.Marshal(record)
			if merr != nil {
				continue
			}
			w.rdb.RPush(ctx, config.WorkerKey.AttemptActivityQueue, payload)
		}
		time.Sleep(5 * time.Second)
		return
	}

	w.log.Debug().Int("events", len(batch)).Msg("Batch persisted")
}

// drain processes all remaining queued events before shutdown.
func (w *ActivityWorker) drain(ctx context.Context) {
	batch := make([]repository.ActivityRecord, 0, ActivityBatchSize)
	drained := 0

	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.AttemptActivityQueue).Result()
		if err != nil {
			break
		}

		var record repository.ActivityRecord
		if err := json.Unmarshal([]byte(result), &record); err != nil {
			continue
		}
		batch = append(batch, record)
		drained++

		if len(batch) >= ActivityBatchSize {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
		}
	}

	w.flushSafe(ctx, batch)
	if drained > 0 {
		w.log.Info().Int("events", drained).Msg("Drained queue")
	}
}
