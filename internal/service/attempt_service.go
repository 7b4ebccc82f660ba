package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const questionCacheTTL = 5 * time.Minute

// AttemptService owns the attempt read-modify-write protocol: saves
// under optimistic concurrency, exactly-once submission, the read-only
// state projection, and the expiry sweep. Every mutation re-reads
// current state under a row lock; attempt state is never cached.
type AttemptService struct {
	pool         *pgxpool.Pool
	attemptRepo  *repository.AttemptRepository
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
	grading      *GradingService
	rdb          *redis.Client
	monitor      *MonitorPublisher
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	grading *GradingService,
	rdb *redis.Client,
	monitor *MonitorPublisher,
) *AttemptService {
	return &AttemptService{
		pool:         pool,
		attemptRepo:  attemptRepo,
		examRepo:     examRepo,
		questionRepo: questionRepo,
		grading:      grading,
		rdb:          rdb,
		monitor:      monitor,
	}
}

// SaveAttempt persists the caller's full answer map if and only if the
// stored version equals expectedVersion. The version the caller gets
// back is always expectedVersion + 1; a mismatch means the caller must
// re-fetch state and merge before retrying, not retry blindly.
func (s *AttemptService) SaveAttempt(ctx context.Context, attemptID uuid.UUID, req *model.SaveAttemptRequest) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetByIDForUpdate(ctx, tx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrAttemptNotFound
		}
		return 0, fmt.Errorf("lock attempt: %w", err)
	}
	if attempt.Submitted() {
		return 0, ErrAttemptAlreadySubmitted
	}
	if attempt.Version != req.ExpectedVersion {
		return 0, ErrVersionMismatch
	}

	newVersion, err := s.attemptRepo.UpdateAnswers(ctx, tx, attemptID, req.Answers, req.AutoSaveData, req.ExpectedVersion)
	if err != nil {
		return 0, fmt.Errorf("update answers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	s.monitor.Publish(ctx, model.MonitorEvent{
		Kind:      model.MonitorAttemptSaved,
		AttemptID: attemptID,
		ExamID:    attempt.ExamID,
		Version:   newVersion,
	})
	return newVersion, nil
}

// SubmitAttempt finalizes an attempt exactly once: grading and the
// terminal state transition commit in the same transaction, so a result
// row always exists by the time the attempt reads as submitted. A second
// submit is rejected, never silently accepted.
func (s *AttemptService) SubmitAttempt(ctx context.Context, attemptID uuid.UUID) (*model.ExamResult, error) {
	return s.finalize(ctx, attemptID, model.MonitorAttemptSubmitted)
}

func (s *AttemptService) finalize(ctx context.Context, attemptID uuid.UUID, kind model.MonitorEventKind) (*model.ExamResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt, err := s.attemptRepo.GetByIDForUpdate(ctx, tx, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("lock attempt: %w", err)
	}
	if attempt.Submitted() {
		return nil, ErrAttemptAlreadySubmitted
	}

	result, err := s.grading.CalculateResult(ctx, tx, attempt)
	if err != nil {
		return nil, err
	}

	if err := s.attemptRepo.MarkSubmitted(ctx, tx, attemptID, time.Now()); err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	}
	if err := s.attemptRepo.CompleteStudentExamAttempt(ctx, tx, attemptID); err != nil {
		return nil, fmt.Errorf("complete bookkeeping: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.monitor.Publish(ctx, model.MonitorEvent{
		Kind:      kind,
		AttemptID: attemptID,
		ExamID:    attempt.ExamID,
		Version:   attempt.Version,
	})
	return result, nil
}

// AttemptState is the read-only projection consumed by the exam-taking
// UI and by manual-grading tooling.
type AttemptState struct {
	Attempt   *model.ExamAttempt         `json:"attempt"`
	Exam      *model.Exam                `json:"exam"`
	Questions []model.QuestionForStudent `json:"questions"`
	Result    *model.ExamResult          `json:"result,omitempty"`
}

// GetAttemptState loads the attempt, its exam, and the student-facing
// question list. Questions are immutable during a live exam and come
// from a short-lived Redis cache; the attempt itself is always read
// fresh from the store.
func (s *AttemptService) GetAttemptState(ctx context.Context, attemptID uuid.UUID) (*AttemptState, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, s.pool, attemptID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}

	exam, err := s.examRepo.GetByIDFromPool(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("load exam: %w", err)
	}

	questions, err := s.studentQuestions(ctx, attempt.ExamID)
	if err != nil {
		return nil, err
	}

	state := &AttemptState{
		Attempt:   attempt,
		Exam:      exam,
		Questions: questions,
	}

	if attempt.Submitted() {
		result, err := s.grading.GetResult(ctx, attemptID)
		if err == nil {
			state.Result = result
		} else if !errors.Is(err, ErrAttemptNotFound) {
			return nil, err
		}
	}
	return state, nil
}

func (s *AttemptService) studentQuestions(ctx context.Context, examID uuid.UUID) ([]model.QuestionForStudent, error) {
	cacheKey := config.CacheKey.ExamQuestionsKey(examID.String())

	if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var questions []model.QuestionForStudent
		if err := json.Unmarshal([]byte(cached), &questions); err == nil {
			return questions, nil
		}
	}

	full, err := s.questionRepo.ListByExamFromPool(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	questions := make([]model.QuestionForStudent, 0, len(full))
	for i := range full {
		questions = append(questions, full[i].ForStudent())
	}

	if payload, err := json.Marshal(questions); err == nil {
		s.rdb.Set(ctx, cacheKey, payload, questionCacheTTL)
	}
	return questions, nil
}

// CleanupExpiredAttempts force-finalizes every in-progress attempt past
// its deadline and returns how many it closed. Per-attempt failures are
// swallowed so one bad row can never block the sweep; in particular a
// student submitting concurrently just turns that candidate into an
// already-submitted no-op.
func (s *AttemptService) CleanupExpiredAttempts(ctx context.Context) (int, error) {
	ids, err := s.attemptRepo.ListExpiredIDs(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}

	closed := 0
	for _, id := range ids {
		if _, err := s.finalize(ctx, id, model.MonitorAttemptExpired); err != nil {
			continue
		}
		closed++
	}
	return closed, nil
}

// ListByExam returns every attempt of an exam for the admin review UI.
func (s *AttemptService) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamAttempt, error) {
	if _, err := s.examRepo.GetByIDFromPool(ctx, examID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return s.attemptRepo.ListByExam(ctx, examID)
}
