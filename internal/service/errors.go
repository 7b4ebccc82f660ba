package service

import "errors"

// Admission, save, and submit failures are caller-distinguishable: every
// check surfaces its own sentinel so handlers can map each one to a
// specific response code and user-facing message.
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrExamNotPublished = errors.New("exam is not published")
	ErrExamNotStarted   = errors.New("exam has not started yet")
	ErrExamEnded        = errors.New("exam has already ended")

	ErrCodeRequired        = errors.New("access code is required for this exam")
	ErrInvalidCode         = errors.New("invalid access code")
	ErrCodeAlreadyUsed     = errors.New("this access code has already been used")
	ErrStudentNameRequired = errors.New("student name is required for this exam")
	ErrAttemptLimitReached = errors.New("attempt limit reached for this exam")
	ErrIPNotWhitelisted    = errors.New("client IP is not whitelisted for this exam")
	ErrIPBlacklisted       = errors.New("client IP is blacklisted for this exam")

	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptAlreadySubmitted = errors.New("attempt has already been submitted")
	ErrVersionMismatch         = errors.New("attempt version mismatch, reload and retry")

	ErrForbidden = errors.New("forbidden")
)
