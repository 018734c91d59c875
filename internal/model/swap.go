package model

import (
	"strings"
	"time"
)

type Chain string

const (
	ChainEthereum Chain = "ethereum"
	ChainCasper   Chain = "casper"
)

// ParseChain normalizes a chain name as carried in deposit events.
func ParseChain(s string) (Chain, bool) {
	switch Chain(strings.ToLower(strings.TrimSpace(s))) {
	case ChainEthereum:
		return ChainEthereum, true
	case ChainCasper:
		return ChainCasper, true
	}
	return "", false
}

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "PENDING"
	SwapStatusCompleted SwapStatus = "COMPLETED"
	SwapStatusFailed    SwapStatus = "FAILED"
	SwapStatusRefunded  SwapStatus = "REFUNDED"
)

func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusCompleted || s == SwapStatusFailed || s == SwapStatusRefunded
}

// NativeTokenAddress marks swaps of the chain's native asset.
const NativeTokenAddress = "0x0000000000000000000000000000000000000000"

type Swap struct {
	ID            uint       `gorm:"primaryKey" json:"-"`
	SwapID        string     `gorm:"column:swap_id;type:varchar(255);not null;uniqueIndex" json:"swap_id"`
	UserAddress   string     `gorm:"column:user_address;type:text;not null" json:"user_address"`
	FromChain     Chain      `gorm:"column:from_chain;type:varchar(50);not null;index" json:"from_chain"`
	ToChain       Chain      `gorm:"column:to_chain;type:varchar(50);not null" json:"to_chain"`
	TokenAddress  string     `gorm:"column:token_address;type:text;not null" json:"token_address"`
	Amount        string     `gorm:"column:amount;type:varchar(255);not null" json:"amount"`
	Recipient     string     `gorm:"column:recipient;type:text;not null" json:"recipient"`
	DepositTxHash *string    `gorm:"column:deposit_tx_hash;type:varchar(255)" json:"deposit_tx_hash"`
	ReleaseTxHash *string    `gorm:"column:release_tx_hash;type:varchar(255)" json:"release_tx_hash"`
	Status        SwapStatus `gorm:"column:status;type:varchar(50);not null;default:'PENDING';index" json:"status"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Swap) TableName() string {
	return "swaps"
}
