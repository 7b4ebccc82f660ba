package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication / authorization ────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrForbidden          ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Admission ─────────────────────────────────────────────────────
	ErrExamNotFound        ErrCode = "EXAM_NOT_FOUND"
	ErrExamNotPublished    ErrCode = "EXAM_NOT_PUBLISHED"
	ErrExamNotStarted      ErrCode = "EXAM_NOT_STARTED"
	ErrExamEnded           ErrCode = "EXAM_ENDED"
	ErrCodeRequired        ErrCode = "CODE_REQUIRED"
	ErrInvalidCode         ErrCode = "INVALID_CODE"
	ErrCodeAlreadyUsed     ErrCode = "CODE_ALREADY_USED"
	ErrStudentNameRequired ErrCode = "STUDENT_NAME_REQUIRED"
	ErrAttemptLimitReached ErrCode = "ATTEMPT_LIMIT_REACHED"
	ErrIPNotWhitelisted    ErrCode = "IP_NOT_WHITELISTED"
	ErrIPBlacklisted       ErrCode = "IP_BLACKLISTED"

	// ─── Attempt lifecycle ─────────────────────────────────────────────
	ErrAttemptNotFound         ErrCode = "ATTEMPT_NOT_FOUND"
	ErrAttemptAlreadySubmitted ErrCode = "ATTEMPT_ALREADY_SUBMITTED"
	ErrVersionMismatch         ErrCode = "VERSION_MISMATCH"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrForbidden:
		return "You do not have permission to access this resource."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	case ErrExamNotFound:
		return "The exam was not found."
	case ErrExamNotPublished:
		return "This exam is not published."
	case ErrExamNotStarted:
		return "This exam has not started yet."
	case ErrExamEnded:
		return "This exam has already ended."
	case ErrCodeRequired:
		return "An access code is required for this exam."
	case ErrInvalidCode:
		return "The access code is invalid."
	case ErrCodeAlreadyUsed:
		return "This access code has already been used."
	case ErrStudentNameRequired:
		return "A student name is required for this exam."
	case ErrAttemptLimitReached:
		return "The attempt limit for this exam has been reached."
	case ErrIPNotWhitelisted:
		return "Your network is not allowed to take this exam."
	case ErrIPBlacklisted:
		return "Your network is blocked from taking this exam."

	case ErrAttemptNotFound:
		return "The attempt was not found."
	case ErrAttemptAlreadySubmitted:
		return "This attempt has already been submitted."
	case ErrVersionMismatch:
		return "Your answers are out of date. Reload and try again."

	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
