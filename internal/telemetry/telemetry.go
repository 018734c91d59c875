package telemetry

import (
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperevent"
	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/controller"
	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

const (
	defaultBackfillBlocks = 100
	defaultChunkSize      = 10
	defaultEventsPerTick  = 50
)

type Telemetry struct {
	db         *gorm.DB
	store      *store.Store
	appConfig  *config.AppConfig
	logger     *logger.Logger
	ethRPC     ethrpc.IEthRPC
	casperRPC  casperrpc.ICasperRPC
	decoder    casperevent.Decoder
	controller controller.IController

	ethIndexing    atomic.Bool
	casperIndexing atomic.Bool
	processing     atomic.Bool

	// lastCheckedBlock is 0 until a backfill completes.
	lastCheckedBlock atomic.Uint64

	// guarded by casperIndexing
	didRewindForDecode  bool
	loggedDecodeFailure bool
}

func New(
	db *gorm.DB,
	store *store.Store,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	ethRPC ethrpc.IEthRPC,
	casperRPC casperrpc.ICasperRPC,
	decoder casperevent.Decoder,
	controller controller.IController,
) *Telemetry {
	return &Telemetry{
		db:         db,
		store:      store,
		appConfig:  appConfig,
		logger:     logger,
		ethRPC:     ethRPC,
		casperRPC:  casperRPC,
		decoder:    decoder,
		controller: controller,
	}
}

// LastCheckedBlock is the highest ethereum block fully scanned by the poll.
func (t *Telemetry) LastCheckedBlock() uint64 {
	return t.lastCheckedBlock.Load()
}
