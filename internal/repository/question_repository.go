package repository

import (
	"context"
	"encoding/json"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByExam retrieves all questions of an exam ordered by order_index.
func (r *QuestionRepository) ListByExam(ctx context.Context, db DB, examID uuid.UUID) ([]model.Question, error) {
	rows, err := db.Query(ctx,
		`SELECT id, exam_id, question_text, question_type, options, correct_answers, points, order_index
		 FROM questions
		 WHERE exam_id = $1
		 ORDER BY order_index, id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var (
			q          model.Question
			optionsRaw []byte
		)
		if err := rows.Scan(
			&q.ID, &q.ExamID, &q.QuestionText, &q.QuestionType,
			&optionsRaw, &q.CorrectAnswers, &q.Points, &q.OrderIndex,
		); err != nil {
			return nil, err
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
				return nil, err
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListByExamFromPool is the pool-backed convenience used outside transactions.
func (r *QuestionRepository) ListByExamFromPool(ctx context.Context, examID uuid.UUID) ([]model.Question, error) {
	return r.ListByExam(ctx, r.pool, examID)
}
