package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the relayer registry on the ops port
type MetricsHandler struct {
	registry *prometheus.Registry
}

// NewMetricsHandler adds the Go runtime and process collectors to registry.
func NewMetricsHandler(registry *prometheus.Registry) *MetricsHandler {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &MetricsHandler{
		registry: registry,
	}
}

func (h *MetricsHandler) Handler() gin.HandlerFunc {
	handler := promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
	return gin.WrapH(handler)
}
