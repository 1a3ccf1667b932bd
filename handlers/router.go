package handlers

import (
	"net/http"

	"membership-backend/metrics"
	"membership-backend/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes onto a fresh gin engine
func NewRouter(profileHandler *ProfileHandler, healthHandler *HealthHandler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())

	r.NoMethod(func(c *gin.Context) {
		respondError(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/profile", profileHandler.GetProfile)
		api.POST("/profile/update", profileHandler.UpdateProfile)
		api.GET("/profile/image", profileHandler.GetProfileImage)
		api.POST("/profile/image", profileHandler.UploadProfileImage)
	}

	return r
}
