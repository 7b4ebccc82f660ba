package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/examgate/examgate-backend/internal/accesscode"
	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdmissionService admits test-takers into exams. It owns the
// lock-then-check admission protocol: all existence checks and the
// attempt insert run inside one transaction scoped by an advisory lock,
// so two concurrent starts with the same code (or from the same IP on a
// limited exam) can never both pass.
type AdmissionService struct {
	pool        *pgxpool.Pool
	examRepo    *repository.ExamRepository
	ipRuleRepo  *repository.IPRuleRepository
	studentRepo *repository.StudentRepository
	attemptRepo *repository.AttemptRepository
	codes       *accesscode.Generator
	monitor     *MonitorPublisher
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(
	pool *pgxpool.Pool,
	examRepo *repository.ExamRepository,
	ipRuleRepo *repository.IPRuleRepository,
	studentRepo *repository.StudentRepository,
	attemptRepo *repository.AttemptRepository,
	codes *accesscode.Generator,
	monitor *MonitorPublisher,
) *AdmissionService {
	return &AdmissionService{
		pool:        pool,
		examRepo:    examRepo,
		ipRuleRepo:  ipRuleRepo,
		studentRepo: studentRepo,
		attemptRepo: attemptRepo,
		codes:       codes,
		monitor:     monitor,
	}
}

// StartAttemptResult is what a freshly admitted client needs to begin.
type StartAttemptResult struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Seed      string    `json:"seed"`
	Version   int64     `json:"version"`
}

// StartAttempt runs the admission checks in order and creates the
// attempt. Each check fails with its own sentinel error.
func (s *AdmissionService) StartAttempt(ctx context.Context, req *model.StartAttemptRequest, clientIP string) (*StartAttemptResult, error) {
	exam, err := s.examRepo.GetByIDFromPool(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}

	if err := checkExamOpen(exam, time.Now()); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	attempt := &model.ExamAttempt{
		ID:        uuid.New(),
		ExamID:    exam.ID,
		IPAddress: clientIP,
		Answers:   model.AnswerMap{},
	}

	var student *model.Student

	switch exam.AccessType {
	case model.AccessTypeCodeBased:
		student, err = s.admitByCode(ctx, tx, exam, req.Code)
		if err != nil {
			return nil, err
		}
		attempt.StudentID = &student.ID
		attempt.StudentName = &student.Name

	case model.AccessTypeIPRestricted:
		name := strings.TrimSpace(req.StudentName)
		if name == "" {
			return nil, ErrStudentNameRequired
		}
		attempt.StudentName = &name
		if err := s.enforceAttemptLimit(ctx, tx, exam, clientIP); err != nil {
			return nil, err
		}

	case model.AccessTypeOpen:
		if name := strings.TrimSpace(req.StudentName); name != "" {
			attempt.StudentName = &name
		}
		if err := s.enforceAttemptLimit(ctx, tx, exam, clientIP); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown access type %q", exam.AccessType)
	}

	rules, err := s.ipRuleRepo.ListByExam(ctx, tx, exam.ID)
	if err != nil {
		return nil, fmt.Errorf("load ip rules: %w", err)
	}
	if err := evaluateIPRules(rules, clientIP); err != nil {
		return nil, err
	}

	attempt.Seed, err = newSeed()
	if err != nil {
		return nil, err
	}

	if err := s.attemptRepo.Create(ctx, tx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	if student != nil {
		if err := s.attemptRepo.CreateStudentExamAttempt(ctx, tx, student.ID, exam.ID, attempt.ID); err != nil {
			return nil, fmt.Errorf("create student exam attempt: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.monitor.Publish(ctx, model.MonitorEvent{
		Kind:      model.MonitorAttemptStarted,
		AttemptID: attempt.ID,
		ExamID:    exam.ID,
		Version:   attempt.Version,
	})

	return &StartAttemptResult{
		AttemptID: attempt.ID,
		Seed:      attempt.Seed,
		Version:   attempt.Version,
	}, nil
}

// admitByCode resolves the student behind an access code and closes the
// duplicate-start race: the advisory lock on (exam, student) is taken
// before the existence check, so the check and the later insert are
// atomic with respect to a concurrent start using the same code.
func (s *AdmissionService) admitByCode(ctx context.Context, tx pgx.Tx, exam *model.Exam, code string) (*model.Student, error) {
	if strings.TrimSpace(code) == "" {
		return nil, ErrCodeRequired
	}

	normalized, err := s.codes.Validate(code)
	if err != nil {
		return nil, ErrInvalidCode
	}

	student, err := s.studentRepo.GetByCode(ctx, tx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("resolve code: %w", err)
	}

	lockKey := fmt.Sprintf("admission:%s:student:%d", exam.ID, student.ID)
	if err := repository.AcquireAdvisoryLock(ctx, tx, lockKey); err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	_, err = s.attemptRepo.GetStudentExamAttempt(ctx, tx, student.ID, exam.ID)
	if err == nil {
		return nil, ErrCodeAlreadyUsed
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check prior attempt: %w", err)
	}

	return student, nil
}

// enforceAttemptLimit serializes concurrent starts from one IP and
// counts under the lock. Only IP_RESTRICTED and OPEN exams limit by IP;
// CODE_BASED relies entirely on per-code uniqueness.
func (s *AdmissionService) enforceAttemptLimit(ctx context.Context, tx pgx.Tx, exam *model.Exam, clientIP string) error {
	if exam.AttemptLimit <= 0 {
		return nil
	}

	lockKey := fmt.Sprintf("admission:%s:ip:%s", exam.ID, clientIP)
	if err := repository.AcquireAdvisoryLock(ctx, tx, lockKey); err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}

	count, err := s.attemptRepo.CountByExamAndIP(ctx, tx, exam.ID, clientIP)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	if count >= exam.AttemptLimit {
		return ErrAttemptLimitReached
	}
	return nil
}

// checkExamOpen verifies lifecycle status and the scheduling window.
func checkExamOpen(exam *model.Exam, now time.Time) error {
	if exam.Status != model.ExamStatusPublished {
		return ErrExamNotPublished
	}
	if exam.StartTime != nil && now.Before(*exam.StartTime) {
		return ErrExamNotStarted
	}
	if exam.EndTime != nil && now.After(*exam.EndTime) {
		return ErrExamEnded
	}
	return nil
}

// newSeed returns the opaque per-attempt shuffle seed.
func newSeed() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("seed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
