package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/casper-bridge-relayer/internal/handler"
	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
)

// NewHttpServer is the public liveness listener. It only answers /healthz.
func NewHttpServer(h *handler.Handler, httpMetrics *monitoring.HTTPMetrics) *gin.Engine {
	r := newEngine(httpMetrics)
	loadLivenessRoutes(r, h)
	return r
}

// NewOpsServer serves metrics and the detailed health checks on the ops port.
func NewOpsServer(h *handler.Handler, httpMetrics *monitoring.HTTPMetrics) *gin.Engine {
	r := newEngine(httpMetrics)
	loadOpsRoutes(r, h)
	return r
}

func newEngine(httpMetrics *monitoring.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		gin.Recovery(),
	)
	if httpMetrics != nil {
		r.Use(monitoring.HTTPMetricsMiddleware(httpMetrics))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}
