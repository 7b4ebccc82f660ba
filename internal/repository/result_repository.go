package repository

import (
	"context"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResultRepository handles exam result and regrade history data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Upsert writes the result row for an attempt, replacing any previous
// one. One result per attempt, keyed by attempt_id.
func (r *ResultRepository) Upsert(ctx context.Context, db DB, res *model.ExamResult) error {
	return db.QueryRow(ctx,
		`INSERT INTO exam_results
			(attempt_id, total_questions, correct_count, score_percentage,
			 auto_points, manual_points, max_points, final_score_percentage)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (attempt_id) DO UPDATE SET
			total_questions = EXCLUDED.total_questions,
			correct_count = EXCLUDED.correct_count,
			score_percentage = EXCLUDED.score_percentage,
			auto_points = EXCLUDED.auto_points,
			manual_points = EXCLUDED.manual_points,
			max_points = EXCLUDED.max_points,
			final_score_percentage = EXCLUDED.final_score_percentage,
			calculated_at = NOW()
		 RETURNING calculated_at`,
		res.AttemptID, res.TotalQuestions, res.CorrectCount, res.ScorePercentage,
		res.AutoPoints, res.ManualPoints, res.MaxPoints, res.FinalScorePercentage,
	).Scan(&res.CalculatedAt)
}

// GetByAttempt retrieves the result of an attempt.
func (r *ResultRepository) GetByAttempt(ctx context.Context, db DB, attemptID uuid.UUID) (*model.ExamResult, error) {
	res := &model.ExamResult{}
	err := db.QueryRow(ctx,
		`SELECT attempt_id, total_questions, correct_count, score_percentage,
				auto_points, manual_points, max_points, final_score_percentage, calculated_at
		 FROM exam_results
		 WHERE attempt_id = $1`, attemptID,
	).Scan(
		&res.AttemptID, &res.TotalQuestions, &res.CorrectCount, &res.ScorePercentage,
		&res.AutoPoints, &res.ManualPoints, &res.MaxPoints, &res.FinalScorePercentage,
		&res.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AppendHistory records a score transition caused by a regrade.
func (r *ResultRepository) AppendHistory(ctx context.Context, db DB, h *model.ExamResultsHistory) error {
	return db.QueryRow(ctx,
		`INSERT INTO exam_results_history
			(attempt_id, old_score, new_score, old_final, new_final)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, changed_at`,
		h.AttemptID, h.OldScore, h.NewScore, h.OldFinal, h.NewFinal,
	).Scan(&h.ID, &h.ChangedAt)
}

// ListHistory retrieves the regrade audit trail of an attempt, oldest first.
func (r *ResultRepository) ListHistory(ctx context.Context, attemptID uuid.UUID) ([]model.ExamResultsHistory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, attempt_id, old_score, new_score, old_final, new_final, changed_at
		 FROM exam_results_history
		 WHERE attempt_id = $1
		 ORDER BY changed_at, id`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.ExamResultsHistory
	for rows.Next() {
		var h model.ExamResultsHistory
		if err := rows.Scan(&h.ID, &h.AttemptID, &h.OldScore, &h.NewScore, &h.OldFinal, &h.NewFinal, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// ListManualGrades retrieves manual grade overrides for an attempt.
func (r *ResultRepository) ListManualGrades(ctx context.Context, db DB, attemptID uuid.UUID) ([]model.ManualGrade, error) {
	rows, err := db.Query(ctx,
		`SELECT attempt_id, question_id, awarded_points, notes, graded_at
		 FROM manual_grades
		 WHERE attempt_id = $1
		 ORDER BY graded_at`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []model.ManualGrade
	for rows.Next() {
		var g model.ManualGrade
		if err := rows.Scan(&g.AttemptID, &g.QuestionID, &g.AwardedPoints, &g.Notes, &g.GradedAt); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// UpsertManualGrade writes a manual grade for one question of an attempt.
func (r *ResultRepository) UpsertManualGrade(ctx context.Context, db DB, g *model.ManualGrade) error {
	return db.QueryRow(ctx,
		`INSERT INTO manual_grades (attempt_id, question_id, awarded_points, notes)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE SET
			awarded_points = EXCLUDED.awarded_points,
			notes = EXCLUDED.notes,
			graded_at = NOW()
		 RETURNING graded_at`,
		g.AttemptID, g.QuestionID, g.AwardedPoints, g.Notes,
	).Scan(&g.GradedAt)
}
