package handler

import (
	"net/http"

	"github.com/examgate/examgate-backend/internal/model"
	"github.com/examgate/examgate-backend/internal/response"
	"github.com/examgate/examgate-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles the privileged regrade and review endpoints.
// Everything here sits behind RequireAdminJWT.
type AdminHandler struct {
	attemptService  *service.AttemptService
	gradingService  *service.GradingService
	regradeService  *service.RegradeService
	activityService *service.ActivityService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	attemptService *service.AttemptService,
	gradingService *service.GradingService,
	regradeService *service.RegradeService,
	activityService *service.ActivityService,
) *AdminHandler {
	return &AdminHandler{
		attemptService:  attemptService,
		gradingService:  gradingService,
		regradeService:  regradeService,
		activityService: activityService,
	}
}

// RegradeAttempt godoc
// POST /api/v1/admin/attempts/:attempt_id/regrade
func (h *AdminHandler) RegradeAttempt(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.regradeService.RegradeAttempt(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// RegradeExam godoc
// POST /api/v1/admin/exams/:exam_id/regrade
// Bulk recompute after a canonical answer correction.
func (h *AdminHandler) RegradeExam(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	regraded, err := h.regradeService.RegradeExam(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"regraded": regraded})
}

// ListAttempts godoc
// GET /api/v1/admin/exams/:exam_id/attempts
func (h *AdminHandler) ListAttempts(c *gin.Context) {
	examID, err := uuid.Parse(c.Param("exam_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempts, err := h.attemptService.ListByExam(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// GetResult godoc
// GET /api/v1/admin/attempts/:attempt_id/result
// Returns the stored result plus its regrade history.
func (h *AdminHandler) GetResult(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.gradingService.GetResult(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	history, err := h.regradeService.GetHistory(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result":  result,
		"history": history,
	})
}

// GetActivity godoc
// GET /api/v1/admin/attempts/:attempt_id/activity
// Persisted client telemetry for post-hoc review.
func (h *AdminHandler) GetActivity(c *gin.Context) {
	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	events, err := h.activityService.ListActivity(c.Request.Context(), attemptID)
	if err != nil {
		failFromService(c, err)
		return
	}

	if events == nil {
		events = []model.ActivityEvent{}
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}
