package controller

import (
	"context"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

type IController interface {
	// ExecuteReleaseOnCasper pays the CSPR equivalent of an ethereum deposit
	// and records the terminal status of the swap
	ExecuteReleaseOnCasper(ctx context.Context, swap *model.Swap) (string, error)

	// ExecuteReleaseOnEthereum pays the ETH equivalent of a casper deposit
	// and records the terminal status of the swap
	ExecuteReleaseOnEthereum(ctx context.Context, swap *model.Swap) (string, error)
}
