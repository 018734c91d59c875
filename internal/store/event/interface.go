package event

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

type IStore interface {
	// CreateIfNotExists inserts the event unless (chain, tx_hash) is already
	// recorded. It reports whether a new row was written.
	CreateIfNotExists(tx *gorm.DB, event *model.Event) (bool, error)
	GetByTxHash(tx *gorm.DB, chain model.Chain, txHash string) (*model.Event, error)
	Count(tx *gorm.DB, chain model.Chain) (int64, error)
}
