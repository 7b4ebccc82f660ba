package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examgate/examgate-backend/internal/grading"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradingService computes and persists attempt results. CalculateResult
// is idempotent: the result row is upserted keyed by attempt id, so
// re-running it (submission, regrade, expiry) always converges on the
// same values for unchanged input.
type GradingService struct {
	pool         *pgxpool.Pool
	attemptRepo  *repository.AttemptRepository
	questionRepo *repository.QuestionRepository
	resultRepo   *repository.ResultRepository
}

// NewGradingService creates a new GradingService.
func NewGradingService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ResultRepository,
) *GradingService {
	return &GradingService{
		pool:         pool,
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
	}
}

// CalculateResult grades every question of the attempt's exam against
// its answer map, folds in manual grades, and upserts the result row.
// Runs on whatever transaction (or pool) the caller passes so the
// finalizer can make grading atomic with the terminal state change.
func (s *GradingService) CalculateResult(ctx context.Context, db repository.DB, attempt *model.ExamAttempt) (*model.ExamResult, error) {
	questions, err := s.questionRepo.ListByExam(ctx, db, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	manual, err := s.resultRepo.ListManualGrades(ctx, db, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load manual grades: %w", err)
	}

	outcome := grading.Summarize(questions, attempt.Answers, manual)

	result := &model.ExamResult{
		AttemptID:            attempt.ID,
		TotalQuestions:       outcome.TotalQuestions,
		CorrectCount:         outcome.CorrectCount,
		ScorePercentage:      outcome.ScorePercentage,
		AutoPoints:           outcome.AutoPoints,
		ManualPoints:         outcome.ManualPoints,
		MaxPoints:            outcome.MaxPoints,
		FinalScorePercentage: outcome.FinalScorePercentage,
	}
	if err := s.resultRepo.Upsert(ctx, db, result); err != nil {
		return nil, fmt.Errorf("upsert result: %w", err)
	}
	return result, nil
}

// CalculateResultByID is the pool-backed entry point used by regrades.
func (s *GradingService) CalculateResultByID(ctx context.Context, db repository.DB, attemptID uuid.UUID) (*model.ExamResult, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, db, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	return s.CalculateResult(ctx, db, attempt)
}

// GetResult retrieves the stored result of an attempt.
func (s *GradingService) GetResult(ctx context.Context, attemptID uuid.UUID) (*model.ExamResult, error) {
	result, err := s.resultRepo.GetByAttempt(ctx, s.pool, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return result, nil
}
