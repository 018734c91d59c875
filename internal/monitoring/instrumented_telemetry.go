package monitoring

import (
	"context"
	"time"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/telemetry"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/webhook"
)

const (
	JobEthereumBackfill     = "ethereum_backfill"
	JobEthereumRange        = "ethereum_range_backfill"
	JobEthereumIndexing     = "ethereum_deposit_indexing"
	JobCasperIndexing       = "casper_event_indexing"
	JobPendingSwapProcessor = "pending_swap_processing"
	JobPriceRefresh         = "price_refresh"
)

type progressReporter interface {
	LastCheckedBlock() uint64
}

// InstrumentedTelemetry wraps the base telemetry with job monitoring capabilities
type InstrumentedTelemetry struct {
	baseTelemetry telemetry.ITelemetry
	statusManager *JobStatusManager
	metrics       *BackgroundJobMetrics
	logger        *logger.Logger
	config        *config.AppConfig
	webhookClient *webhook.Client

	backfill    *InstrumentedJob
	rangeScan   *InstrumentedJob
	ethIndex    *InstrumentedJob
	casperIndex *InstrumentedJob
	swaps       *InstrumentedJob
}

var _ telemetry.ITelemetry = (*InstrumentedTelemetry)(nil)

func NewInstrumentedTelemetry(
	baseTelemetry telemetry.ITelemetry,
	statusManager *JobStatusManager,
	metrics *BackgroundJobMetrics,
	logger *logger.Logger,
	config *config.AppConfig,
	webhookClient *webhook.Client,
) *InstrumentedTelemetry {
	it := &InstrumentedTelemetry{
		baseTelemetry: baseTelemetry,
		statusManager: statusManager,
		metrics:       metrics,
		logger:        logger,
		config:        config,
		webhookClient: webhookClient,
	}

	it.backfill = it.job(JobEthereumBackfill, it.withProgress(baseTelemetry.BackfillEthereumDeposits), "", 30*time.Minute)
	it.ethIndex = it.job(JobEthereumIndexing, it.withProgress(baseTelemetry.IndexEthereumDeposits), config.UptimeWebhooks.IndexEthereumDepositsURL, 10*time.Minute)
	it.casperIndex = it.job(JobCasperIndexing, baseTelemetry.IndexCasperEvents, config.UptimeWebhooks.IndexCasperEventsURL, 10*time.Minute)
	it.swaps = it.job(JobPendingSwapProcessor, baseTelemetry.ProcessPendingSwaps, config.UptimeWebhooks.ProcessPendingSwapsURL, 15*time.Minute)
	return it
}

// Job builds an instrumented job that reports to the same status manager,
// e.g. the price refresh scheduled next to the telemetry loops.
func (it *InstrumentedTelemetry) Job(jobName string, fn func(ctx context.Context) error, webhookURL string, timeout time.Duration) *InstrumentedJob {
	return it.job(jobName, fn, webhookURL, timeout)
}

func (it *InstrumentedTelemetry) job(jobName string, fn func(ctx context.Context) error, webhookURL string, timeout time.Duration) *InstrumentedJob {
	return NewInstrumentedJob(jobName, fn, it.statusManager, it.logger, timeout, it.webhookClient, webhookURL)
}

func (it *InstrumentedTelemetry) withProgress(fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		err := fn(ctx)
		if p, ok := it.baseTelemetry.(progressReporter); ok {
			if block := p.LastCheckedBlock(); block > 0 {
				it.metrics.SetChainProgress(string(model.ChainEthereum), block)
			}
		}
		return err
	}
}

func (it *InstrumentedTelemetry) BackfillEthereumDeposits(ctx context.Context) error {
	return it.backfill.Execute(ctx)
}

// BackfillEthereumRange is only run from the CLI, so the job is built per call.
func (it *InstrumentedTelemetry) BackfillEthereumRange(ctx context.Context, from, to uint64) error {
	return it.job(JobEthereumRange, func(ctx context.Context) error {
		return it.baseTelemetry.BackfillEthereumRange(ctx, from, to)
	}, "", 6*time.Hour).Execute(ctx)
}

func (it *InstrumentedTelemetry) IndexEthereumDeposits(ctx context.Context) error {
	return it.ethIndex.Execute(ctx)
}

func (it *InstrumentedTelemetry) IndexCasperEvents(ctx context.Context) error {
	return it.casperIndex.Execute(ctx)
}

func (it *InstrumentedTelemetry) ProcessPendingSwaps(ctx context.Context) error {
	return it.swaps.Execute(ctx)
}
