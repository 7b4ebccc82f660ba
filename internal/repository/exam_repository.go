package repository

import (
	"context"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, access_type, start_time, end_time, duration_minutes, attempt_limit, status, created_at, updated_at`

func scanExam(row interface{ Scan(dest ...any) error }) (*model.Exam, error) {
	e := &model.Exam{}
	err := row.Scan(
		&e.ID, &e.Title, &e.AccessType, &e.StartTime, &e.EndTime,
		&e.DurationMinutes, &e.AttemptLimit, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, db DB, id uuid.UUID) (*model.Exam, error) {
	return scanExam(db.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// GetByIDFromPool is the pool-backed convenience used outside transactions.
func (r *ExamRepository) GetByIDFromPool(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	return r.GetByID(ctx, r.pool, id)
}
