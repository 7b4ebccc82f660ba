package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds. PARAGRAPH and
// PHOTO_UPLOAD are never auto-graded; their points enter results only
// through manual grades.
type QuestionType string

const (
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionTypeSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMultiSelect    QuestionType = "MULTI_SELECT"
	QuestionTypeParagraph      QuestionType = "PARAGRAPH"
	QuestionTypePhotoUpload    QuestionType = "PHOTO_UPLOAD"
)

// AutoGradable reports whether answers of this type can be scored
// without human review.
func (t QuestionType) AutoGradable() bool {
	switch t {
	case QuestionTypeParagraph, QuestionTypePhotoUpload:
		return false
	default:
		return true
	}
}

// Question represents a single exam question.
//
// CorrectAnswers holds the canonical answer in a type-dependent JSON
// shape: a bool or "true"/"false" string (TRUE_FALSE), a string
// (SINGLE_CHOICE), or a string array (MULTIPLE_CHOICE / MULTI_SELECT).
// Single-element array wrappers are tolerated everywhere.
type Question struct {
	ID             uuid.UUID       `json:"id"`
	ExamID         uuid.UUID       `json:"exam_id"`
	QuestionText   string          `json:"question_text"`
	QuestionType   QuestionType    `json:"question_type"`
	Options        []string        `json:"options,omitempty"`
	CorrectAnswers json.RawMessage `json:"correct_answers,omitempty"`
	Points         float64         `json:"points"`
	OrderIndex     int             `json:"order_index"`
}

// QuestionForStudent is a question without the correct answer, sent to
// test-takers via the attempt state projection.
type QuestionForStudent struct {
	ID           uuid.UUID    `json:"id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options,omitempty"`
	Points       float64      `json:"points"`
	OrderIndex   int          `json:"order_index"`
}

// ForStudent strips the correct answer from a question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      q.Options,
		Points:       q.Points,
		OrderIndex:   q.OrderIndex,
	}
}
