package model

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	EthereumDecimals = 18
	CasperDecimals   = 9
)

// Web3BigInt is an integer amount in a chain's base unit.
type Web3BigInt struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

func NewWeb3BigInt(v *big.Int, decimals int) *Web3BigInt {
	if v == nil {
		v = new(big.Int)
	}
	return &Web3BigInt{
		Value:   v.String(),
		Decimal: decimals,
	}
}

func (w *Web3BigInt) BigInt() (*big.Int, bool) {
	return new(big.Int).SetString(w.Value, 10)
}

// ToDecimal returns the amount in whole units, e.g. ETH rather than wei.
func (w *Web3BigInt) ToDecimal() decimal.Decimal {
	v, ok := w.BigInt()
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, int32(-w.Decimal))
}

func (w *Web3BigInt) ToFloat() float64 {
	f, _ := w.ToDecimal().Float64()
	return f
}

func (w *Web3BigInt) IsZero() bool {
	v, ok := w.BigInt()
	return !ok || v.Sign() == 0
}
