package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegradeService recomputes finalized attempt scores on demand and
// preserves before/after values for audit. Intended for bulk recompute
// after a question's canonical answer is corrected post-hoc.
type RegradeService struct {
	pool        *pgxpool.Pool
	attemptRepo *repository.AttemptRepository
	resultRepo  *repository.ResultRepository
	grading     *GradingService
}

// NewRegradeService creates a new RegradeService.
func NewRegradeService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	resultRepo *repository.ResultRepository,
	grading *GradingService,
) *RegradeService {
	return &RegradeService{
		pool:        pool,
		attemptRepo: attemptRepo,
		resultRepo:  resultRepo,
		grading:     grading,
	}
}

// RegradeAttempt re-runs grading for one attempt and appends exactly one
// history row with the old and new scores. The history append and the
// result upsert share a transaction so the audit trail can never miss a
// score change.
func (s *RegradeService) RegradeAttempt(ctx context.Context, attemptID uuid.UUID) (*model.ExamResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldScore, oldFinal float64
	old, err := s.resultRepo.GetByAttempt(ctx, tx, attemptID)
	switch {
	case err == nil:
		oldScore, oldFinal = old.ScorePercentage, old.FinalScorePercentage
	case errors.Is(err, pgx.ErrNoRows):
		// First grading run for this attempt; history starts from zero.
	default:
		return nil, fmt.Errorf("load old result: %w", err)
	}

	result, err := s.grading.CalculateResultByID(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}

	history := &model.ExamResultsHistory{
		AttemptID: attemptID,
		OldScore:  oldScore,
		NewScore:  result.ScorePercentage,
		OldFinal:  oldFinal,
		NewFinal:  result.FinalScorePercentage,
	}
	if err := s.resultRepo.AppendHistory(ctx, tx, history); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

// RegradeExam reapplies RegradeAttempt to every submitted attempt of an
// exam and returns how many were regraded. In-progress attempts are
// skipped; per-attempt failures are skipped too, so one broken attempt
// never aborts a bulk recompute.
func (s *RegradeService) RegradeExam(ctx context.Context, examID uuid.UUID) (int, error) {
	attempts, err := s.attemptRepo.ListByExam(ctx, examID)
	if err != nil {
		return 0, fmt.Errorf("list attempts: %w", err)
	}

	regraded := 0
	for i := range attempts {
		if !attempts[i].Submitted() {
			continue
		}
		if _, err := s.RegradeAttempt(ctx, attempts[i].ID); err != nil {
			continue
		}
		regraded++
	}
	return regraded, nil
}

// GetHistory returns the regrade audit trail of an attempt.
func (s *RegradeService) GetHistory(ctx context.Context, attemptID uuid.UUID) ([]model.ExamResultsHistory, error) {
	return s.resultRepo.ListHistory(ctx, attemptID)
}
