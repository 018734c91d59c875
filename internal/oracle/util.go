package oracle

import (
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

var gweiFactor = decimal.New(1, 9)

func parseAmount(amount string) (decimal.Decimal, error) {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok || v.Sign() < 0 {
		return decimal.Zero, errors.Errorf("invalid amount %q", amount)
	}
	return decimal.NewFromBigInt(v, 0), nil
}

// weiToMotes computes floor(wei * ethUSD / (csprUSD * 10^9)).
func weiToMotes(wei, ethUSD, csprUSD decimal.Decimal) *model.Web3BigInt {
	q := quotient(wei.Mul(ethUSD), csprUSD.Mul(gweiFactor))
	return model.NewWeb3BigInt(q, model.CasperDecimals)
}

// motesToWei computes floor(motes * 10^9 * csprUSD / ethUSD).
func motesToWei(motes, ethUSD, csprUSD decimal.Decimal) *model.Web3BigInt {
	q := quotient(motes.Mul(gweiFactor).Mul(csprUSD), ethUSD)
	return model.NewWeb3BigInt(q, model.EthereumDecimals)
}

func quotient(num, den decimal.Decimal) *big.Int {
	if den.Sign() <= 0 {
		return new(big.Int)
	}
	q, _ := num.QuoRem(den, 0)
	return q.BigInt()
}

// backoffDelay is min(maxDelay, base*2^(n-1) + jitter) with jitter in [0, 10%).
func backoffDelay(failures int, base, maxDelay time.Duration, jitter float64) time.Duration {
	if failures < 1 {
		return 0
	}
	step := base
	for i := 1; i < failures; i++ {
		if step >= maxDelay {
			return maxDelay
		}
		step *= 2
	}
	delay := step + time.Duration(jitter*float64(step)/10)
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
