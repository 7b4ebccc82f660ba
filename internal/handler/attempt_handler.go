package handler

import (
	"net/http"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/response"
	"github.com/examgate/examgate-backend/internal/service"
	"github.com/examgate/examgate-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler handles the test-taker facing attempt lifecycle.
type AttemptHandler struct {
	admissionService *service.AdmissionService
	attemptService   *service.AttemptService
	activityService  *service.ActivityService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(
	admissionService *service.AdmissionService,
	attemptService *service.AttemptService,
	activityService *service.ActivityService,
) *AttemptHandler {
	return &AttemptHandler{
		admissionService: admissionService,
		attemptService:   attemptService,
		activityService:  activityService,
	}
}

// StartAttempt godoc
// POST /api/v1/attempts/start
// Admits a test-taker and returns the attempt id plus the shuffle seed.
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.admissionService.StartAttempt(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// SaveAttempt godoc
// POST /api/v1/attempts/:attempt_id/save
// Persists the full answer map under optimistic concurrency.
func (h *AttemptHandler) SaveAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	newVersion, err := h.attemptService.SaveAttempt(c.Request.Context(), attemptID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"new_version": newVersion})
}

// SubmitAttempt godoc
// POST /api/v1/attempts/:attempt_id/submit
// Finalizes the attempt exactly once and returns the graded result.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.attemptService.SubmitAttempt(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"total_questions":  result.TotalQuestions,
		"correct_count":    result.CorrectCount,
		"score_percentage": result.ScorePercentage,
	})
}

// GetAttemptState godoc
// GET /api/v1/attempts/:attempt_id/state
// Read-only projection of the attempt, its exam, and sanitized questions.
func (h *AttemptHandler) GetAttemptState(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.GetAttemptState(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// LogActivity godoc
// POST /api/v1/attempts/:attempt_id/activity
// Append-only telemetry sink; events never affect grading.
func (h *AttemptHandler) LogActivity(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.LogActivityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.activityService.LogActivity(c.Request.Context(), attemptID, req.Events); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"queued": len(req.Events)})
}
