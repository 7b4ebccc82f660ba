package model

import "time"

// Student is a registered test-taker identified by a unique access code.
// The code path is only used by CODE_BASED exams.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
