package handler

import (
	"errors"
	"net/http"

	"github.com/examgate/examgate-backend/internal/response"
	"github.com/examgate/examgate-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// failFromService maps a service sentinel to its HTTP status and error
// code. Every admission/save/submit check surfaces its own kind so the
// UI can show a specific message instead of a generic failure.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, service.ErrExamNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrExamNotPublished)
	case errors.Is(err, service.ErrExamNotStarted):
		response.Fail(c, http.StatusConflict, response.ErrExamNotStarted)
	case errors.Is(err, service.ErrExamEnded):
		response.Fail(c, http.StatusConflict, response.ErrExamEnded)
	case errors.Is(err, service.ErrCodeRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrCodeRequired)
	case errors.Is(err, service.ErrInvalidCode):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
	case errors.Is(err, service.ErrCodeAlreadyUsed):
		response.Fail(c, http.StatusConflict, response.ErrCodeAlreadyUsed)
	case errors.Is(err, service.ErrStudentNameRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrStudentNameRequired)
	case errors.Is(err, service.ErrAttemptLimitReached):
		response.Fail(c, http.StatusConflict, response.ErrAttemptLimitReached)
	case errors.Is(err, service.ErrIPNotWhitelisted):
		response.Fail(c, http.StatusForbidden, response.ErrIPNotWhitelisted)
	case errors.Is(err, service.ErrIPBlacklisted):
		response.Fail(c, http.StatusForbidden, response.ErrIPBlacklisted)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrAttemptAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAttemptAlreadySubmitted)
	case errors.Is(err, service.ErrVersionMismatch):
		response.Fail(c, http.StatusConflict, response.ErrVersionMismatch)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
