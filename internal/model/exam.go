package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the possible states of an exam.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
	ExamStatusArchived  ExamStatus = "ARCHIVED"
)

// AccessType controls how test-takers are identified and admitted.
type AccessType string

const (
	AccessTypeCodeBased    AccessType = "CODE_BASED"
	AccessTypeIPRestricted AccessType = "IP_RESTRICTED"
	AccessTypeOpen         AccessType = "OPEN"
)

// Exam represents an exam entity. Administrative edits aside, an exam is
// immutable once attempts exist.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	AccessType      AccessType `json:"access_type"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	// AttemptLimit caps attempts per client IP for IP_RESTRICTED/OPEN
	// exams. Zero means unlimited. Ignored for CODE_BASED exams, which
	// rely on per-code uniqueness instead.
	AttemptLimit int        `json:"attempt_limit"`
	Status       ExamStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IPRuleType distinguishes whitelist from blacklist rules.
type IPRuleType string

const (
	IPRuleWhitelist IPRuleType = "WHITELIST"
	IPRuleBlacklist IPRuleType = "BLACKLIST"
)

// ExamIPRule is a single allow/deny CIDR rule attached to an exam.
// Whitelist and blacklist are evaluated independently: a blacklist match
// rejects even inside a matched whitelist range.
type ExamIPRule struct {
	ID       int64      `json:"id"`
	ExamID   uuid.UUID  `json:"exam_id"`
	RuleType IPRuleType `json:"rule_type"`
	CIDR     string     `json:"cidr"`
}
