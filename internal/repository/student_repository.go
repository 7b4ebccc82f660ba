package repository

import (
	"context"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByCode resolves a student by their normalized access code.
func (r *StudentRepository) GetByCode(ctx context.Context, db DB, code string) (*model.Student, error) {
	s := &model.Student{}
	err := db.QueryRow(ctx,
		`SELECT id, name, code, created_at FROM students WHERE code = $1`, code,
	).Scan(&s.ID, &s.Name, &s.Code, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO students (name, code) VALUES ($1, $2) RETURNING id, created_at`,
		s.Name, s.Code,
	).Scan(&s.ID, &s.CreatedAt)
}
