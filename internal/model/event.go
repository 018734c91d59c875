package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventTypeDepositInitiated = "DepositInitiated"
	EventTypeContractEvent    = "ContractEvent"
)

// Event is the append-only record of an observed chain event.
type Event struct {
	ID          uint           `gorm:"primaryKey"`
	Chain       Chain          `gorm:"column:chain;type:varchar(50);not null;uniqueIndex:idx_events_chain_tx_hash"`
	EventType   string         `gorm:"column:event_type;type:varchar(100);not null"`
	BlockNumber uint64         `gorm:"column:block_number;not null;default:0"`
	TxHash      string         `gorm:"column:tx_hash;type:varchar(255);not null;uniqueIndex:idx_events_chain_tx_hash"`
	Payload     datatypes.JSON `gorm:"column:payload"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
}

func (Event) TableName() string {
	return "events"
}
