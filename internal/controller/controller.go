package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/notifier"
	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type Controller struct {
	db        *gorm.DB
	store     *store.Store
	ethRPC    ethrpc.IEthRPC
	casperRPC casperrpc.ICasperRPC
	oracle    oracle.IOracle
	notifier  notifier.INotifier
	logger    *logger.Logger
	config    *config.AppConfig

	// swaps paid on chain whose COMPLETED write has not landed yet
	mu       sync.Mutex
	released map[string]string

	completeAttempts int
	completeDelay    time.Duration
}

type Option func(*Controller)

// WithCompleteRetry sets how often the COMPLETED write is attempted after a
// successful release, with delays doubling from delay.
func WithCompleteRetry(attempts int, delay time.Duration) Option {
	return func(c *Controller) {
		c.completeAttempts = attempts
		c.completeDelay = delay
	}
}

func New(
	db *gorm.DB,
	store *store.Store,
	ethRPC ethrpc.IEthRPC,
	casperRPC casperrpc.ICasperRPC,
	oracle oracle.IOracle,
	notifier notifier.INotifier,
	logger *logger.Logger,
	config *config.AppConfig,
	opts ...Option,
) IController {
	c := &Controller{
		db:               db,
		store:            store,
		ethRPC:           ethRPC,
		casperRPC:        casperRPC,
		oracle:           oracle,
		notifier:         notifier,
		logger:           logger,
		config:           config,
		released:         make(map[string]string),
		completeAttempts: 5,
		completeDelay:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ExecuteReleaseOnCasper(ctx context.Context, swap *model.Swap) (string, error) {
	if hash, done, err := c.alreadyReleased(ctx, swap); done || err != nil {
		return hash, err
	}

	motes, err := c.oracle.ConvertEthToCspr(swap.Amount)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnCasper][ConvertEthToCspr]", err)
	}
	amount, err := positiveAmount(motes)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnCasper][ConvertEthToCspr]", err)
	}
	if err := validateCasperRecipient(swap.Recipient); err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnCasper][validateCasperRecipient]", err)
	}

	prices := c.oracle.GetPrices()
	c.logger.Info("[ExecuteReleaseOnCasper] releasing", map[string]string{
		"swapId":    swap.SwapID,
		"recipient": swap.Recipient,
		"amountWei": swap.Amount,
		"motes":     amount.String(),
		"rate":      prices.Rate.StringFixed(2),
	})

	releaseCtx, cancel := c.releaseContext(ctx)
	defer cancel()

	deployHash, err := c.casperRPC.Release(releaseCtx, swap.SwapID, swap.Recipient, amount)
	if err != nil {
		return "", c.releaseFailed(ctx, swap, "[ExecuteReleaseOnCasper][Release]", err)
	}
	c.recordRelease(swap.SwapID, deployHash)
	return deployHash, c.complete(ctx, swap, deployHash)
}

func (c *Controller) ExecuteReleaseOnEthereum(ctx context.Context, swap *model.Swap) (string, error) {
	if hash, done, err := c.alreadyReleased(ctx, swap); done || err != nil {
		return hash, err
	}

	wei, err := c.oracle.ConvertCsprToEth(swap.Amount)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnEthereum][ConvertCsprToEth]", err)
	}
	amount, err := positiveAmount(wei)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnEthereum][ConvertCsprToEth]", err)
	}
	recipient, err := validateEthereumRecipient(swap.Recipient)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnEthereum][validateEthereumRecipient]", err)
	}
	swapID, err := parseSwapID(swap.SwapID)
	if err != nil {
		return "", c.fail(ctx, swap, "[ExecuteReleaseOnEthereum][parseSwapID]", err)
	}

	prices := c.oracle.GetPrices()
	c.logger.Info("[ExecuteReleaseOnEthereum] releasing", map[string]string{
		"swapId":      swap.SwapID,
		"recipient":   recipient.Hex(),
		"amountMotes": swap.Amount,
		"wei":         amount.String(),
		"rate":        prices.Rate.StringFixed(2),
	})

	releaseCtx, cancel := c.releaseContext(ctx)
	defer cancel()

	txHash, err := c.ethRPC.Release(releaseCtx, swapID, recipient, amount)
	if err != nil {
		return "", c.releaseFailed(ctx, swap, "[ExecuteReleaseOnEthereum][Release]", err)
	}
	c.recordRelease(swap.SwapID, txHash)
	return txHash, c.complete(ctx, swap, txHash)
}

// alreadyReleased finishes a swap that was paid by an earlier attempt, and
// refuses to start a release once ctx is done.
func (c *Controller) alreadyReleased(ctx context.Context, swap *model.Swap) (string, bool, error) {
	c.mu.Lock()
	hash, ok := c.released[swap.SwapID]
	c.mu.Unlock()

	if !ok {
		stored, found, err := c.store.RelayerState.Get(c.db, model.ReleasedSwapKey(swap.SwapID))
		if err != nil {
			return "", false, err
		}
		hash, ok = stored, found
	}
	if ok {
		c.logger.Info("[alreadyReleased] swap was paid earlier, completing", map[string]string{
			"swapId": swap.SwapID,
			"txHash": hash,
		})
		return hash, true, c.complete(ctx, swap, hash)
	}

	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// releaseContext detaches the release from shutdown and job deadlines so a
// submitted transaction is always followed to its receipt.
func (c *Controller) releaseContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.config.ReleaseTimeout())
}

// releaseFailed keeps the swap PENDING when the caller stopped waiting, since
// the transaction may still land.
func (c *Controller) releaseFailed(ctx context.Context, swap *model.Swap, step string, cause error) error {
	if ctx.Err() != nil || errors.Is(cause, context.Canceled) {
		c.logger.Warn(step+" interrupted, swap left pending", map[string]string{
			"swapId": swap.SwapID,
			"error":  cause.Error(),
		})
		return cause
	}
	return c.fail(ctx, swap, step, cause)
}

func (c *Controller) recordRelease(swapID, txHash string) {
	c.mu.Lock()
	c.released[swapID] = txHash
	c.mu.Unlock()

	if err := c.store.RelayerState.Set(c.db, model.ReleasedSwapKey(swapID), txHash); err != nil {
		c.logger.Warn("[recordRelease][Set]", map[string]string{
			"swapId": swapID,
			"txHash": txHash,
			"error":  err.Error(),
		})
	}
}

func (c *Controller) forgetRelease(swapID string) {
	c.mu.Lock()
	delete(c.released, swapID)
	c.mu.Unlock()
}

func (c *Controller) markCompleted(swapID, txHash string) (bool, error) {
	var (
		changed bool
		err     error
	)
	delay := c.completeDelay
	for i := 0; i < c.completeAttempts || i == 0; i++ {
		if i > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		changed, err = c.store.Swap.MarkCompleted(c.db, swapID, txHash)
		if err == nil {
			return changed, nil
		}
	}
	return false, err
}

func (c *Controller) complete(ctx context.Context, swap *model.Swap, txHash string) error {
	changed, err := c.markCompleted(swap.SwapID, txHash)
	if err != nil {
		c.logger.Error("[complete][MarkCompleted] release is recorded, completion retried next tick", map[string]string{
			"swapId": swap.SwapID,
			"txHash": txHash,
			"error":  err.Error(),
		})
		return err
	}
	c.forgetRelease(swap.SwapID)
	if !changed {
		c.logger.Warn("[complete] swap is no longer pending", map[string]string{
			"swapId": swap.SwapID,
			"txHash": txHash,
		})
		return nil
	}

	swap.Status = model.SwapStatusCompleted
	swap.ReleaseTxHash = &txHash
	c.logger.Info("[complete] swap completed", map[string]string{
		"swapId": swap.SwapID,
		"txHash": txHash,
	})
	c.notify(ctx, swap)
	return nil
}

// fail records FAILED and returns cause.
func (c *Controller) fail(ctx context.Context, swap *model.Swap, step string, cause error) error {
	c.logger.Error(step, map[string]string{
		"swapId": swap.SwapID,
		"error":  cause.Error(),
	})

	changed, err := c.store.Swap.MarkFailed(c.db, swap.SwapID)
	if err != nil {
		c.logger.Error("[fail][MarkFailed]", map[string]string{
			"swapId": swap.SwapID,
			"error":  err.Error(),
		})
		return cause
	}
	if changed {
		swap.Status = model.SwapStatusFailed
		swap.ReleaseTxHash = nil
		c.notify(ctx, swap)
	}
	return cause
}

func (c *Controller) notify(ctx context.Context, swap *model.Swap) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.SwapStatusChanged(ctx, swap); err != nil {
		c.logger.Warn("[notify][SwapStatusChanged]", map[string]string{
			"swapId": swap.SwapID,
			"status": string(swap.Status),
			"error":  err.Error(),
		})
	}
}
