package oracle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

// Prices is a snapshot of the cached USD quotes.
type Prices struct {
	EthUSD     decimal.Decimal `json:"eth"`
	CsprUSD    decimal.Decimal `json:"cspr"`
	Rate       decimal.Decimal `json:"rate"`
	LastUpdate time.Time       `json:"lastUpdate"`
	Failures   int             `json:"failures"`
}

type IOracle interface {
	// GetRate returns how many CSPR one ETH buys
	GetRate() decimal.Decimal

	GetPrices() Prices

	// ConvertEthToCspr converts a wei amount to motes at the cached rate
	ConvertEthToCspr(amountWei string) (*model.Web3BigInt, error)

	// ConvertCsprToEth converts a motes amount to wei at the cached rate
	ConvertCsprToEth(amountMotes string) (*model.Web3BigInt, error)

	// Refresh fetches new quotes. It returns ErrBackoff while a previous
	// failure is cooling down and ErrRefreshInFlight if another refresh runs.
	Refresh(ctx context.Context) error
}
