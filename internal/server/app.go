package server

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperevent"
	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/controller"
	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
	"github.com/dwarvesf/casper-bridge-relayer/internal/notifier"
	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
	pgstore "github.com/dwarvesf/casper-bridge-relayer/internal/store/postgres"
	"github.com/dwarvesf/casper-bridge-relayer/internal/telemetry"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/vault"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/webhook"
)

// App holds the wired relayer components shared by the daemon and the CLIs.
type App struct {
	Config   *config.AppConfig
	Logger   *logger.Logger
	DB       *gorm.DB
	Registry *prometheus.Registry

	Oracle           oracle.IOracle
	Notifier         notifier.INotifier
	JobStatusManager *monitoring.JobStatusManager
	JobMetrics       *monitoring.BackgroundJobMetrics
	HTTPMetrics      *monitoring.HTTPMetrics
	Telemetry        *monitoring.InstrumentedTelemetry
}

// LoadConfig reads the environment, fills secrets from Vault when configured
// and validates the result.
func LoadConfig() (*config.AppConfig, *logger.Logger, error) {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	if appConfig.Vault.Addr != "" {
		vc, err := vault.New(appConfig.Vault.Addr, appConfig.Vault.KVPath, appConfig.Vault.Role)
		if err != nil {
			return nil, logger, err
		}
		if err := appConfig.LoadSecrets(vc); err != nil {
			return nil, logger, err
		}
	}

	if err := appConfig.Validate(); err != nil {
		return nil, logger, err
	}
	return appConfig, logger, nil
}

// NewApp connects the database and both chains. An unreachable database is fatal.
func NewApp(appConfig *config.AppConfig, logger *logger.Logger) (app *App, err error) {
	db := pgstore.New(appConfig, logger)
	defer func() {
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
	}()
	s := store.New()

	registry := prometheus.NewRegistry()
	apiMetrics := monitoring.NewExternalAPIMetrics()
	apiMetrics.MustRegister(registry)
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)

	ethClient, err := ethrpc.New(appConfig, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init ethereum rpc")
	}
	casperClient, err := casperrpc.New(appConfig, logger)
	if err != nil {
		return nil, errors.Wrap(err, "init casper rpc")
	}

	timeouts := monitoring.DefaultTimeoutConfig
	timeouts.ReleaseTimeout = appConfig.ReleaseTimeout()
	breakers := monitoring.CircuitBreakerConfigs
	ethRPC := monitoring.NewCircuitBreakerEthRPC(ethClient, breakers[monitoring.ServiceEthereumRPC], timeouts, apiMetrics, logger)
	casperRPC := monitoring.NewCircuitBreakerCasperRPC(casperClient, breakers[monitoring.ServiceCasperRPC], timeouts, apiMetrics, logger)

	oracleSvc := oracle.New(appConfig, logger)
	notifierSvc, err := notifier.New(appConfig, logger)
	if err != nil {
		return nil, err
	}

	ctrl := controller.New(db, s, ethRPC, casperRPC, oracleSvc, notifierSvc, logger, appConfig)
	base := telemetry.New(db, s, appConfig, logger, ethRPC, casperRPC, casperevent.NewMarkerDecoder(), ctrl)

	jsm := monitoring.NewJobStatusManager(logger, jobMetrics)
	it := monitoring.NewInstrumentedTelemetry(base, jsm, jobMetrics, logger, appConfig, webhook.New(logger))

	return &App{
		Config:           appConfig,
		Logger:           logger,
		DB:               db,
		Registry:         registry,
		Oracle:           oracleSvc,
		Notifier:         notifierSvc,
		JobStatusManager: jsm,
		JobMetrics:       jobMetrics,
		HTTPMetrics:      httpMetrics,
		Telemetry:        it,
	}, nil
}

// Close releases the notifier connection and the database pool.
func (a *App) Close() {
	a.Notifier.Close()
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
