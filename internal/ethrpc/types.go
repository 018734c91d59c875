package ethrpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

const (
	ReleaseModeContract = "contract"
	ReleaseModeTransfer = "transfer"
)

// nativeTransferGas is the intrinsic gas of a plain value transfer.
const nativeTransferGas = 21000

type DepositEvent struct {
	SwapID      *big.Int
	Depositor   common.Address
	Amount      *big.Int
	ToChain     string
	Recipient   string
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}

// DepositPayload is the JSON stored with the raw event row.
type DepositPayload struct {
	SwapID      string `json:"swapId"`
	Depositor   string `json:"depositor"`
	Amount      string `json:"amount"`
	ToChain     string `json:"toChain"`
	Recipient   string `json:"recipient"`
	BlockNumber uint64 `json:"blockNumber"`
	TxHash      string `json:"txHash"`
	LogIndex    uint   `json:"logIndex"`
}

func (e DepositEvent) Payload() DepositPayload {
	return DepositPayload{
		SwapID:      e.SwapID.String(),
		Depositor:   e.Depositor.Hex(),
		Amount:      e.Amount.String(),
		ToChain:     e.ToChain,
		Recipient:   e.Recipient,
		BlockNumber: e.BlockNumber,
		TxHash:      e.TxHash.Hex(),
		LogIndex:    e.LogIndex,
	}
}
