package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CompletionStatus enumerates attempt lifecycle states.
type CompletionStatus string

const (
	CompletionInProgress CompletionStatus = "IN_PROGRESS"
	CompletionSubmitted  CompletionStatus = "SUBMITTED"
	CompletionAbandoned  CompletionStatus = "ABANDONED"
	CompletionInvalid    CompletionStatus = "INVALID"
)

// AnswerMap maps question id → type-dependent answer value (bool, string,
// string array, or null). Values stay raw JSON until the grading engine
// decodes them against the question's declared type.
type AnswerMap map[string]json.RawMessage

// ExamAttempt is one test-taker's run through an exam. Created by the
// admission controller with Version = 1; Answers/AutoSaveData/Version are
// mutated only by saves, Status/SubmittedAt only by the finalizer. Rows
// are never deleted.
type ExamAttempt struct {
	ID           uuid.UUID        `json:"id"`
	ExamID       uuid.UUID        `json:"exam_id"`
	StudentID    *int64           `json:"student_id,omitempty"`
	StudentName  *string          `json:"student_name,omitempty"`
	IPAddress    string           `json:"ip_address"`
	Answers      AnswerMap        `json:"answers"`
	AutoSaveData json.RawMessage  `json:"auto_save_data,omitempty"`
	Status       CompletionStatus `json:"completion_status"`
	Version      int64            `json:"version"`
	Seed         string           `json:"seed"`
	StartedAt    time.Time        `json:"started_at"`
	SubmittedAt  *time.Time       `json:"submitted_at,omitempty"`
}

// Submitted reports whether the attempt reached its terminal state.
// Both signals are checked so a half-written row still counts as closed.
func (a *ExamAttempt) Submitted() bool {
	return a.Status == CompletionSubmitted || a.SubmittedAt != nil
}

// StudentExamAttempt is the code-based bookkeeping row. Its uniqueness on
// (student_id, exam_id) is what prevents a coded student from starting a
// second attempt.
type StudentExamAttempt struct {
	StudentID int64     `json:"student_id"`
	ExamID    uuid.UUID `json:"exam_id"`
	AttemptID uuid.UUID `json:"attempt_id"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Request payloads ───────────────────────────────────────────────

// StartAttemptRequest is the payload for starting an attempt.
type StartAttemptRequest struct {
	ExamID      uuid.UUID `json:"exam_id" binding:"required"`
	Code        string    `json:"code" binding:"omitempty,max=64"`
	StudentName string    `json:"student_name" binding:"omitempty,max=255"`
}

// SaveAttemptRequest is the payload for persisting in-progress answers.
// Callers must always send their full current answer map and the version
// they last observed.
type SaveAttemptRequest struct {
	Answers         AnswerMap       `json:"answers" binding:"required"`
	AutoSaveData    json.RawMessage `json:"auto_save_data" binding:"omitempty"`
	ExpectedVersion int64           `json:"expected_version" binding:"required,min=1"`
}

// ActivityEvent is one telemetry event from the exam-taking client
// (tab switch, focus loss, etc). Pure side channel; never affects grading.
type ActivityEvent struct {
	EventType  string          `json:"event_type" binding:"required,max=64"`
	OccurredAt time.Time       `json:"occurred_at" binding:"required"`
	Detail     json.RawMessage `json:"detail" binding:"omitempty"`
}

// LogActivityRequest is the payload for the activity telemetry sink.
type LogActivityRequest struct {
	Events []ActivityEvent `json:"events" binding:"required,min=1,dive"`
}
