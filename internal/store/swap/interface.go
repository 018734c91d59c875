package swap

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

// IStore persists swap intents. Status writers only touch PENDING rows and
// report whether a row changed.
type IStore interface {
	CreateIfNotExists(tx *gorm.DB, swap *model.Swap) (bool, error)
	GetBySwapID(tx *gorm.DB, swapID string) (*model.Swap, error)
	ListPending(tx *gorm.DB) ([]model.Swap, error)
	ExistsFromChain(tx *gorm.DB, chain model.Chain) (bool, error)
	MarkCompleted(tx *gorm.DB, swapID, releaseTxHash string) (bool, error)
	MarkFailed(tx *gorm.DB, swapID string) (bool, error)
	MarkRefunded(tx *gorm.DB, swapID, txHash string) (bool, error)
}
