package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamResult is the grading output for one attempt; exactly one row per
// attempt, fully owned and overwritten by the grading engine.
//
// ScorePercentage covers auto-gradable questions only;
// FinalScorePercentage folds in manual points over the full max.
type ExamResult struct {
	AttemptID            uuid.UUID `json:"attempt_id"`
	TotalQuestions       int       `json:"total_questions"`
	CorrectCount         int       `json:"correct_count"`
	ScorePercentage      float64   `json:"score_percentage"`
	AutoPoints           float64   `json:"auto_points"`
	ManualPoints         float64   `json:"manual_points"`
	MaxPoints            float64   `json:"max_points"`
	FinalScorePercentage float64   `json:"final_score_percentage"`
	CalculatedAt         time.Time `json:"calculated_at"`
}

// ExamResultsHistory is one append-only regrade audit row.
type ExamResultsHistory struct {
	ID        int64     `json:"id"`
	AttemptID uuid.UUID `json:"attempt_id"`
	OldScore  float64   `json:"old_score"`
	NewScore  float64   `json:"new_score"`
	OldFinal  float64   `json:"old_final"`
	NewFinal  float64   `json:"new_final"`
	ChangedAt time.Time `json:"changed_at"`
}

// ManualGrade is a human-awarded score for one (attempt, question) pair,
// written by the grading UI and consumed read-only by the grading engine.
// Awarded points are clamped to the question's worth at calculation time.
type ManualGrade struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	AwardedPoints float64   `json:"awarded_points"`
	Notes         *string   `json:"notes,omitempty"`
	GradedAt      time.Time `json:"graded_at"`
}
