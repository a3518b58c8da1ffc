package router

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"formflow/internal/config"
	"formflow/internal/handler"
	"formflow/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	logger *log.Logger,
	validationH *handler.ValidationHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWT))

	v1.GET("/processes/:processKey/activities", validationH.List)

	activities := v1.Group("/processes/:processKey/activities/:activityKey")
	activities.POST("/validate", validationH.Validate)
	activities.GET("/template", validationH.Template)

	return r
}
