package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
)

// criticalJobs are the loops a stuck relayer cannot do without.
var criticalJobs = []string{
	monitoring.JobEthereumIndexing,
	monitoring.JobCasperIndexing,
	monitoring.JobPendingSwapProcessor,
}

// Jobs responds 200 when every job is fine, 206 when some job is failing and
// 503 when a job is stalled or a critical job failed three times in a row.
func (h *HealthHandler) Jobs(c *gin.Context) {
	start := time.Now()

	if h.jobStatusManager == nil {
		c.JSON(http.StatusServiceUnavailable, JobsHealthResponse{
			Status:     "unhealthy",
			Timestamp:  time.Now(),
			Jobs:       make(map[string]monitoring.JobStatus),
			Summary:    monitoring.JobsSummary{},
			DurationMs: time.Since(start).Milliseconds(),
		})
		return
	}

	jobs := h.jobStatusManager.GetAllJobStatuses()
	summary := h.jobStatusManager.GetJobsSummary()

	overallStatus := "healthy"
	if summary.StalledJobs > 0 {
		overallStatus = "unhealthy"
	} else if summary.UnhealthyJobs > 0 {
		overallStatus = "degraded"
		for _, name := range criticalJobs {
			if job, ok := jobs[name]; ok &&
				job.Status == monitoring.JobStatusFailed &&
				job.ConsecutiveFailures > 2 {
				overallStatus = "unhealthy"
				break
			}
		}
	}

	response := JobsHealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Jobs:       jobs,
		Summary:    summary,
		DurationMs: time.Since(start).Milliseconds(),
	}

	statusCode := http.StatusOK
	switch overallStatus {
	case "unhealthy":
		statusCode = http.StatusServiceUnavailable
	case "degraded":
		statusCode = http.StatusPartialContent
	}

	if overallStatus != "healthy" {
		h.logger.Warn("[Jobs] jobs health check not healthy", map[string]string{
			"overall_status": overallStatus,
			"total_jobs":     fmt.Sprintf("%d", summary.TotalJobs),
			"unhealthy_jobs": fmt.Sprintf("%d", summary.UnhealthyJobs),
			"stalled_jobs":   fmt.Sprintf("%d", summary.StalledJobs),
		})
	}

	c.JSON(statusCode, response)
}
