package worker

import (
	"context"
	"time"

	"github.com/examgate/examgate-backend/internal/service"
	"github.com/rs/zerolog"
)

// ExpiryWorker periodically force-finalizes attempts that ran past their
// deadline (exam duration elapsed or exam end time passed).
type ExpiryWorker struct {
	attemptService *service.AttemptService
	interval       time.Duration
	log            zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(attemptService *service.AttemptService, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		attemptService: attemptService,
		interval:       interval,
		log:            log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine. One sweep runs
// immediately so a restart never leaves overdue attempts waiting a full
// interval.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	closed, err := w.attemptService.CleanupExpiredAttempts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Sweep failed")
		}
		return
	}
	if closed > 0 {
		w.log.Info().Int("auto_submitted", closed).Msg("Expired attempts closed")
	}
}
