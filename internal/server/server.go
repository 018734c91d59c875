package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/casper-bridge-relayer/internal/handler"
	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
	httptransport "github.com/dwarvesf/casper-bridge-relayer/internal/transport/http"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

const shutdownTimeout = 15 * time.Second

// Init runs the relayer until SIGINT or SIGTERM.
func Init() {
	appConfig, logger, err := LoadConfig()
	if err != nil {
		logger.Fatal("[Init][LoadConfig] invalid configuration", map[string]string{
			"error": err.Error(),
		})
	}

	if err := run(appConfig, logger); err != nil {
		logger.Fatal("[Init] relayer stopped", map[string]string{
			"error": err.Error(),
		})
	}
}

// run owns the app so it is closed before Init exits the process.
func run(appConfig *config.AppConfig, logger *logger.Logger) error {
	app, err := NewApp(appConfig, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

// Run schedules the loops and serves the listeners until ctx is done, then
// stops everything together.
func (a *App) Run(ctx context.Context) error {
	ctx, stopLoops := context.WithCancel(ctx)
	defer stopLoops()

	h := handler.New(a.Config, a.Logger, a.DB, a.Oracle, a.JobStatusManager, a.Registry)

	c, err := a.schedule(ctx)
	if err != nil {
		return err
	}

	servers := []*http.Server{{
		Addr:    ":" + a.Config.ApiServer.Port,
		Handler: httptransport.NewHttpServer(h, a.HTTPMetrics),
	}}
	if a.Config.Ops.Port != "" {
		servers = append(servers, &http.Server{
			Addr:    ":" + a.Config.Ops.Port,
			Handler: httptransport.NewOpsServer(h, a.HTTPMetrics),
		})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.JobStatusManager.Run(ctx)
	}()

	// prime the price cache and catch up on recent deposits before the first tick
	if err := a.Oracle.Refresh(ctx); err != nil {
		a.Logger.Warn("[Run][Refresh] initial price refresh failed", map[string]string{"error": err.Error()})
	}
	if err := a.Telemetry.BackfillEthereumDeposits(ctx); err != nil {
		a.Logger.Error("[Run][BackfillEthereumDeposits] initial backfill failed", map[string]string{"error": err.Error()})
	}

	c.Start()

	serveErr := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		a.Logger.Info("[Run] listening", map[string]string{"addr": srv.Addr})
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("[Run] shutting down")
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("[Run][Shutdown] http server shutdown failed", map[string]string{
				"addr":  srv.Addr,
				"error": err.Error(),
			})
		}
	}

	select {
	case <-c.Stop().Done():
	case <-shutdownCtx.Done():
		a.Logger.Warn("[Run][Shutdown] cron jobs still running after timeout")
	}
	stopLoops()
	wg.Wait()

	return runErr
}

func (a *App) schedule(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{a.Logger})))

	priceRefresh := a.Telemetry.Job(monitoring.JobPriceRefresh, a.Oracle.Refresh, a.Config.UptimeWebhooks.RefreshPricesURL, time.Minute)

	jobs := []struct {
		name     string
		interval time.Duration
		run      func(ctx context.Context) error
	}{
		{"IndexEthereumDeposits", a.Config.Ethereum.PollInterval, a.Telemetry.IndexEthereumDeposits},
		{"IndexCasperEvents", a.Config.Casper.EventsPollInterval, a.Telemetry.IndexCasperEvents},
		{"ProcessPendingSwaps", a.Config.Orchestrator.Interval, a.Telemetry.ProcessPendingSwaps},
		{"RefreshPrices", a.Config.PriceFeed.RefreshInterval, priceRefresh.Execute},
	}

	for _, job := range jobs {
		job := job
		if job.interval <= 0 {
			return nil, fmt.Errorf("%s: interval must be positive", job.name)
		}
		if _, err := c.AddFunc("@every "+job.interval.String(), func() {
			if err := job.run(ctx); err != nil {
				a.Logger.Error("["+job.name+"] tick failed", map[string]string{"error": err.Error()})
			}
		}); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}
	return c, nil
}

// cronLogger reports recovered panics through the relayer logger.
type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("[cron] "+msg, kvFields(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvFields(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Error("[cron] "+msg, fields)
}

func kvFields(keysAndValues []interface{}) map[string]string {
	fields := make(map[string]string, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = fmt.Sprint(keysAndValues[i+1])
	}
	return fields
}
