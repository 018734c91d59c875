package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/handler/health"
	"github.com/dwarvesf/casper-bridge-relayer/internal/handler/metrics"
	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type Handler struct {
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	db *gorm.DB,
	oracleSvc oracle.IOracle,
	jobStatusManager *monitoring.JobStatusManager,
	metricsRegistry *prometheus.Registry) *Handler {
	return &Handler{
		HealthHandler:  health.New(appConfig, logger, db, oracleSvc, jobStatusManager),
		MetricsHandler: metrics.NewMetricsHandler(metricsRegistry),
	}
}
