package telemetry

import (
	"context"
	"fmt"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

// ProcessPendingSwaps releases every PENDING swap, oldest first. A failed
// release does not stop the batch.
func (t *Telemetry) ProcessPendingSwaps(ctx context.Context) error {
	if !t.processing.CompareAndSwap(false, true) {
		t.logger.Debug("[ProcessPendingSwaps] already processing")
		return nil
	}
	defer t.processing.Store(false)

	pending, err := t.store.Swap.ListPending(t.db)
	if err != nil {
		t.logger.Error("[ProcessPendingSwaps][ListPending]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	t.logger.Info("[ProcessPendingSwaps] found pending swaps", map[string]string{
		"count": fmt.Sprint(len(pending)),
	})

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.processSwap(ctx, &pending[i])
	}
	return nil
}

func (t *Telemetry) processSwap(ctx context.Context, swap *model.Swap) {
	fields := map[string]string{
		"swapId":    swap.SwapID,
		"fromChain": string(swap.FromChain),
		"toChain":   string(swap.ToChain),
		"amount":    swap.Amount,
		"recipient": swap.Recipient,
	}

	var (
		txHash string
		err    error
	)
	switch swap.ToChain {
	case model.ChainCasper:
		txHash, err = t.controller.ExecuteReleaseOnCasper(ctx, swap)
	case model.ChainEthereum:
		txHash, err = t.controller.ExecuteReleaseOnEthereum(ctx, swap)
	default:
		t.logger.Warn("[ProcessPendingSwaps] unsupported destination chain, leaving swap pending", fields)
		return
	}

	if err != nil {
		fields["error"] = err.Error()
		t.logger.Error("[ProcessPendingSwaps][Execute]", fields)
		return
	}
	fields["releaseTxHash"] = txHash
	t.logger.Info("[ProcessPendingSwaps] swap released", fields)
}
