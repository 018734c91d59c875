package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type HealthHandler struct {
	config           *config.AppConfig
	logger           *logger.Logger
	db               *gorm.DB
	oracle           oracle.IOracle
	jobStatusManager *monitoring.JobStatusManager
	now              func() time.Time
}

func New(config *config.AppConfig, logger *logger.Logger, db *gorm.DB, oracle oracle.IOracle, jobStatusManager *monitoring.JobStatusManager) IHealthHandler {
	return &HealthHandler{
		config:           config,
		logger:           logger,
		db:               db,
		oracle:           oracle,
		jobStatusManager: jobStatusManager,
		now:              time.Now,
	}
}

func (h *HealthHandler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, BasicHealthResponse{OK: true})
}

// Database pings the store with a five second budget.
func (h *HealthHandler) Database(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	dbCheck := h.checkDatabase(c.Request.Context())
	response.Checks["database"] = dbCheck
	response.DurationMs = time.Since(start).Milliseconds()

	if dbCheck.Status == "healthy" {
		response.Status = "healthy"
		c.JSON(http.StatusOK, response)
		return
	}
	response.Status = "unhealthy"
	c.JSON(http.StatusServiceUnavailable, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	start := time.Now()

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}

	if h.db == nil {
		check.Status = "unhealthy"
		check.Error = "database connection not available"
		return check
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		check.Status = "unhealthy"
		check.Error = fmt.Sprintf("failed to get underlying database: %v", err)
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		check.Status = "unhealthy"
		if pingCtx.Err() == context.DeadlineExceeded {
			check.Error = "timeout"
		} else {
			check.Error = err.Error()
		}
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	stats := sqlDB.Stats()

	check.Status = "healthy"
	check.Latency = time.Since(start).Milliseconds()
	check.Metadata["driver"] = h.db.Dialector.Name()
	check.Metadata["connection_pool"] = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	return check
}

// Prices reports the cached quotes. The feed always serves a value, so a
// stale or default quote is degraded rather than unhealthy.
func (h *HealthHandler) Prices(c *gin.Context) {
	if h.oracle == nil {
		c.JSON(http.StatusServiceUnavailable, PricesHealthResponse{
			Status:    "unhealthy",
			Timestamp: h.now(),
		})
		return
	}

	prices := h.oracle.GetPrices()
	now := h.now()
	response := PricesHealthResponse{
		Status:    "healthy",
		Timestamp: now,
		Prices:    prices,
	}

	staleAfter := 3 * h.config.PriceFeed.RefreshInterval
	if staleAfter <= 0 {
		staleAfter = 3 * time.Minute
	}

	switch {
	case prices.LastUpdate.IsZero():
		response.Status = "degraded"
		response.AgeSec = -1
	default:
		response.AgeSec = int64(now.Sub(prices.LastUpdate).Seconds())
		if now.Sub(prices.LastUpdate) > staleAfter || prices.Failures > 0 {
			response.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	c.JSON(statusCode, response)
}
