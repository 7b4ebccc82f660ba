package router

import (
	"net/http"
	"time"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/handler"
	"github.com/examgate/examgate-backend/internal/middleware"
	"github.com/examgate/examgate-backend/internal/response"
	"github.com/examgate/examgate-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Attempt *handler.AttemptHandler
	Admin   *handler.AdminHandler
	Monitor *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Attempt Group (Public, admission does its own gating) ──────
	attempts := router.Group("/api/v1/attempts")
	{
		attempts.POST("/start", handlers.Attempt.StartAttempt)
		attempts.POST("/:attempt_id/save", handlers.Attempt.SaveAttempt)
		attempts.POST("/:attempt_id/submit", handlers.Attempt.SubmitAttempt)
		attempts.POST("/:attempt_id/activity", handlers.Attempt.LogActivity)
		attempts.GET("/:attempt_id/state", handlers.Attempt.GetAttemptState)
	}

	// ─── 3. Admin Group (JWT) ──────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.POST("/attempts/:attempt_id/regrade", handlers.Admin.RegradeAttempt)
		adminAPI.GET("/attempts/:attempt_id/result", handlers.Admin.GetResult)
		adminAPI.GET("/attempts/:attempt_id/activity", handlers.Admin.GetActivity)
		adminAPI.POST("/exams/:exam_id/regrade", handlers.Admin.RegradeExam)
		adminAPI.GET("/exams/:exam_id/attempts", handlers.Admin.ListAttempts)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminJWT(authService))
	{
		ws.GET("/admin/attempts/monitor", handlers.Monitor.MonitorStream)
	}

	return router
}
