package notifier

import (
	"context"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

// INotifier announces terminal swap transitions to downstream consumers.
type INotifier interface {
	SwapStatusChanged(ctx context.Context, swap *model.Swap) error
	Close()
}

type SwapStatusMessage struct {
	SwapID        string           `json:"swap_id"`
	Status        model.SwapStatus `json:"status"`
	FromChain     model.Chain      `json:"from_chain"`
	ToChain       model.Chain      `json:"to_chain"`
	ReleaseTxHash *string          `json:"release_tx_hash"`
}

func NewSwapStatusMessage(swap *model.Swap) SwapStatusMessage {
	return SwapStatusMessage{
		SwapID:        swap.SwapID,
		Status:        swap.Status,
		FromChain:     swap.FromChain,
		ToChain:       swap.ToChain,
		ReleaseTxHash: swap.ReleaseTxHash,
	}
}
