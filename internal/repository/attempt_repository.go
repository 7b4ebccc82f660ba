package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepository handles exam attempt data access. Rows are the unit
// of mutual exclusion for save/submit: mutating reads go through
// GetByIDForUpdate inside a caller-owned transaction.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Pool exposes the underlying pool for transaction begin.
func (r *AttemptRepository) Pool() *pgxpool.Pool {
	return r.pool
}

const attemptColumns = `id, exam_id, student_id, student_name, ip_address, answers, auto_save_data,
	completion_status, version, seed, started_at, submitted_at`

func scanAttempt(row interface{ Scan(dest ...any) error }) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	var answersRaw []byte
	err := row.Scan(
		&a.ID, &a.ExamID, &a.StudentID, &a.StudentName, &a.IPAddress,
		&answersRaw, &a.AutoSaveData, &a.Status, &a.Version, &a.Seed,
		&a.StartedAt, &a.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Answers = model.AnswerMap{}
	if len(answersRaw) > 0 {
		if err := json.Unmarshal(answersRaw, &a.Answers); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Create inserts a new attempt with version 1 and IN_PROGRESS status.
func (r *AttemptRepository) Create(ctx context.Context, db DB, a *model.ExamAttempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	return db.QueryRow(ctx,
		`INSERT INTO exam_attempts
			(id, exam_id, student_id, student_name, ip_address, answers, auto_save_data,
			 completion_status, version, seed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9)
		 RETURNING version, started_at`,
		a.ID, a.ExamID, a.StudentID, a.StudentName, a.IPAddress, answers, a.AutoSaveData,
		model.CompletionInProgress, a.Seed,
	).Scan(&a.Version, &a.StartedAt)
}

// GetByID retrieves an attempt without locking.
func (r *AttemptRepository) GetByID(ctx context.Context, db DB, id uuid.UUID) (*model.ExamAttempt, error) {
	return scanAttempt(db.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1`, id))
}

// GetByIDForUpdate retrieves an attempt under an exclusive row lock.
// Must be called on a transaction.
func (r *AttemptRepository) GetByIDForUpdate(ctx context.Context, tx DB, id uuid.UUID) (*model.ExamAttempt, error) {
	return scanAttempt(tx.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1 FOR UPDATE`, id))
}

// UpdateAnswers replaces answers/auto_save_data wholesale and bumps the
// version. The WHERE clause re-asserts the expected version so a bug in
// the caller's locking can never skip or repeat a version.
func (r *AttemptRepository) UpdateAnswers(ctx context.Context, tx DB, id uuid.UUID, answers model.AnswerMap, autoSave json.RawMessage, expectedVersion int64) (int64, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return 0, err
	}
	var newVersion int64
	err = tx.QueryRow(ctx,
		`UPDATE exam_attempts
		 SET answers = $1, auto_save_data = $2, version = version + 1
		 WHERE id = $3 AND version = $4 AND submitted_at IS NULL
		 RETURNING version`,
		raw, autoSave, id, expectedVersion,
	).Scan(&newVersion)
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// MarkSubmitted transitions an attempt to its terminal state.
func (r *AttemptRepository) MarkSubmitted(ctx context.Context, tx DB, id uuid.UUID, at time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE exam_attempts
		 SET completion_status = $1, submitted_at = $2
		 WHERE id = $3`,
		model.CompletionSubmitted, at, id)
	return err
}

// CountByExamAndIP counts attempts an IP has started for an exam.
// Called under the (exam, ip) advisory lock during admission.
func (r *AttemptRepository) CountByExamAndIP(ctx context.Context, db DB, examID uuid.UUID, ip string) (int, error) {
	var n int
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE exam_id = $1 AND ip_address = $2`,
		examID, ip,
	).Scan(&n)
	return n, err
}

// ListByExam retrieves all attempts of an exam, newest first.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.ExamAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+`
		 FROM exam_attempts
		 WHERE exam_id = $1
		 ORDER BY started_at DESC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.ExamAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// ListExpiredIDs returns ids of in-progress attempts past their deadline:
// either started_at + exam.duration_minutes has elapsed, or the exam's
// end_time has passed. Either condition alone expires the attempt.
func (r *AttemptRepository) ListExpiredIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id
		 FROM exam_attempts a
		 JOIN exams e ON e.id = a.exam_id
		 WHERE a.completion_status = $1
		   AND a.submitted_at IS NULL
		   AND (
			 (e.duration_minutes > 0 AND $2 >= a.started_at + make_interval(mins => e.duration_minutes))
			 OR (e.end_time IS NOT NULL AND $2 >= e.end_time)
		   )
		 ORDER BY a.started_at`,
		model.CompletionInProgress, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ─── Code-based bookkeeping ─────────────────────────────────────────

// GetStudentExamAttempt fetches the (student, exam) bookkeeping row.
// Returns pgx.ErrNoRows when the student has not attempted the exam.
func (r *AttemptRepository) GetStudentExamAttempt(ctx context.Context, db DB, studentID int64, examID uuid.UUID) (*model.StudentExamAttempt, error) {
	sea := &model.StudentExamAttempt{}
	err := db.QueryRow(ctx,
		`SELECT student_id, exam_id, attempt_id, completed, created_at
		 FROM student_exam_attempts
		 WHERE student_id = $1 AND exam_id = $2`,
		studentID, examID,
	).Scan(&sea.StudentID, &sea.ExamID, &sea.AttemptID, &sea.Completed, &sea.CreatedAt)
	if err != nil {
		return nil, err
	}
	return sea, nil
}

// CreateStudentExamAttempt inserts the uniqueness row that blocks a
// second attempt with the same code.
func (r *AttemptRepository) CreateStudentExamAttempt(ctx context.Context, tx DB, studentID int64, examID, attemptID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO student_exam_attempts (student_id, exam_id, attempt_id)
		 VALUES ($1, $2, $3)`,
		studentID, examID, attemptID)
	return err
}

// CompleteStudentExamAttempt flips the bookkeeping row to completed.
// No-op for attempts that have no such row (non code-based modes).
func (r *AttemptRepository) CompleteStudentExamAttempt(ctx context.Context, tx DB, attemptID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE student_exam_attempts SET completed = TRUE WHERE attempt_id = $1`,
		attemptID)
	return err
}
