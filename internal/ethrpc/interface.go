package ethrpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type IEthRPC interface {
	BlockNumber(ctx context.Context) (uint64, error)
	// FilterDeposits returns DepositInitiated logs of the vault in [from, to].
	FilterDeposits(ctx context.Context, from, to uint64) ([]DepositEvent, error)
	// Release pays recipient for swapID and waits for the receipt.
	Release(ctx context.Context, swapID *big.Int, recipient common.Address, amount *big.Int) (string, error)
	RelayerAddress() common.Address
}
