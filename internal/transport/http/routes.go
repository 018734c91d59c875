package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/casper-bridge-relayer/internal/handler"
)

func loadLivenessRoutes(r *gin.Engine, h *handler.Handler) {
	r.GET("/healthz", h.HealthHandler.Basic)
}

func loadOpsRoutes(r *gin.Engine, h *handler.Handler) {
	r.GET("/healthz", h.HealthHandler.Basic)
	r.GET("/metrics", h.MetricsHandler.Handler())

	health := r.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/jobs", h.HealthHandler.Jobs)
		health.GET("/prices", h.HealthHandler.Prices)
	}
}
