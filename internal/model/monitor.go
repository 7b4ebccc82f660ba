package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MonitorEventKind enumerates the live-monitor event types pushed to
// admin dashboards.
type MonitorEventKind string

const (
	MonitorAttemptStarted   MonitorEventKind = "attempt_started"
	MonitorAttemptSaved     MonitorEventKind = "attempt_saved"
	MonitorAttemptSubmitted MonitorEventKind = "attempt_submitted"
	MonitorAttemptExpired   MonitorEventKind = "attempt_expired"
	MonitorActivity         MonitorEventKind = "activity"
)

// MonitorEvent is one entry on the admin live-monitor channel. Fired
// after the underlying transaction commits; purely informational and
// never consulted by business logic.
type MonitorEvent struct {
	Kind      MonitorEventKind `json:"kind"`
	AttemptID uuid.UUID        `json:"attempt_id"`
	ExamID    uuid.UUID        `json:"exam_id"`
	Version   int64            `json:"version,omitempty"`
	Detail    json.RawMessage  `json:"detail,omitempty"`
	At        time.Time        `json:"at"`
}
