package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
)

func (t *Telemetry) BackfillEthereumDeposits(ctx context.Context) error {
	if !t.ethIndexing.CompareAndSwap(false, true) {
		t.logger.Debug("[BackfillEthereumDeposits] ethereum indexing already running")
		return nil
	}
	defer t.ethIndexing.Store(false)

	return t.backfillEthereum(ctx)
}

func (t *Telemetry) BackfillEthereumRange(ctx context.Context, from, to uint64) error {
	if from > to {
		return fmt.Errorf("invalid block range %d-%d", from, to)
	}
	if !t.ethIndexing.CompareAndSwap(false, true) {
		return fmt.Errorf("ethereum indexing already running")
	}
	defer t.ethIndexing.Store(false)

	t.logger.Info("[BackfillEthereumRange] scanning", map[string]string{
		"from": fmt.Sprint(from),
		"to":   fmt.Sprint(to),
	})
	return t.scanEthereum(ctx, from, to)
}

func (t *Telemetry) IndexEthereumDeposits(ctx context.Context) error {
	if !t.ethIndexing.CompareAndSwap(false, true) {
		t.logger.Debug("[IndexEthereumDeposits] ethereum indexing already running")
		return nil
	}
	defer t.ethIndexing.Store(false)

	last := t.lastCheckedBlock.Load()
	if last == 0 {
		// the startup backfill never finished; never scan from genesis
		return t.backfillEthereum(ctx)
	}

	head, err := t.ethRPC.BlockNumber(ctx)
	if err != nil {
		t.logger.Error("[IndexEthereumDeposits][BlockNumber]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	if head <= last {
		return nil
	}

	if err := t.scanEthereum(ctx, last+1, head); err != nil {
		return err
	}
	t.lastCheckedBlock.Store(head)
	return nil
}

func (t *Telemetry) backfillEthereum(ctx context.Context) error {
	head, err := t.ethRPC.BlockNumber(ctx)
	if err != nil {
		t.logger.Error("[BackfillEthereumDeposits][BlockNumber]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	var from uint64
	if window := t.appConfig.Ethereum.BackfillBlocks; head > window {
		from = head - window
	}

	t.logger.Info("[BackfillEthereumDeposits] scanning recent blocks", map[string]string{
		"from": fmt.Sprint(from),
		"to":   fmt.Sprint(head),
	})
	if err := t.scanEthereum(ctx, from, head); err != nil {
		return err
	}
	t.lastCheckedBlock.Store(head)
	return nil
}

// scanEthereum walks [from, to] in fixed size chunks and stops at the first
// failed chunk.
func (t *Telemetry) scanEthereum(ctx context.Context, from, to uint64) error {
	chunk := t.appConfig.Ethereum.ChunkSize
	if chunk == 0 {
		chunk = defaultChunkSize
	}

	found := 0
	for start := from; start <= to; start += chunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + chunk - 1
		if end > to {
			end = to
		}

		deposits, err := t.ethRPC.FilterDeposits(ctx, start, end)
		if err != nil {
			t.logger.Error("[scanEthereum][FilterDeposits]", map[string]string{
				"from":  fmt.Sprint(start),
				"to":    fmt.Sprint(end),
				"error": err.Error(),
			})
			return err
		}

		for _, deposit := range deposits {
			if err := t.recordEthereumDeposit(deposit); err != nil {
				t.logger.Error("[scanEthereum][recordEthereumDeposit]", map[string]string{
					"txHash": deposit.TxHash.Hex(),
					"error":  err.Error(),
				})
				return err
			}
		}
		found += len(deposits)

		if end == to {
			break
		}
	}

	if found > 0 {
		t.logger.Info("[scanEthereum] deposits found", map[string]string{
			"count": fmt.Sprint(found),
			"from":  fmt.Sprint(from),
			"to":    fmt.Sprint(to),
		})
	}
	return nil
}

func (t *Telemetry) recordEthereumDeposit(deposit ethrpc.DepositEvent) error {
	payload, err := json.Marshal(deposit.Payload())
	if err != nil {
		return err
	}
	txHash := deposit.TxHash.Hex()

	return store.DoInTx(t.db, func(tx *gorm.DB) error {
		created, err := t.store.Event.CreateIfNotExists(tx, &model.Event{
			Chain:       model.ChainEthereum,
			EventType:   model.EventTypeDepositInitiated,
			BlockNumber: deposit.BlockNumber,
			TxHash:      txHash,
			Payload:     datatypes.JSON(payload),
		})
		if err != nil {
			return err
		}
		if !created {
			return nil
		}

		toChain, ok := model.ParseChain(deposit.ToChain)
		recipient := strings.TrimSpace(deposit.Recipient)
		if !ok || recipient == "" {
			t.logger.Warn("[recordEthereumDeposit] deposit kept as event only", map[string]string{
				"swapId":    deposit.SwapID.String(),
				"txHash":    txHash,
				"toChain":   deposit.ToChain,
				"recipient": deposit.Recipient,
			})
			return nil
		}

		swapCreated, err := t.store.Swap.CreateIfNotExists(tx, &model.Swap{
			SwapID:        deposit.SwapID.String(),
			UserAddress:   deposit.Depositor.Hex(),
			FromChain:     model.ChainEthereum,
			ToChain:       toChain,
			TokenAddress:  model.NativeTokenAddress,
			Amount:        deposit.Amount.String(),
			Recipient:     recipient,
			DepositTxHash: &txHash,
			Status:        model.SwapStatusPending,
		})
		if err != nil {
			return err
		}
		if swapCreated {
			t.logger.Info("[recordEthereumDeposit] swap created", map[string]string{
				"swapId":  deposit.SwapID.String(),
				"toChain": string(toChain),
				"amount":  deposit.Amount.String(),
			})
		}
		return nil
	})
}
