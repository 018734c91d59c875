package swap

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) CreateIfNotExists(tx *gorm.DB, swap *model.Swap) (bool, error) {
	if swap.Status == "" {
		swap.Status = model.SwapStatusPending
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "swap_id"}},
		DoNothing: true,
	}).Create(swap)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) GetBySwapID(tx *gorm.DB, swapID string) (*model.Swap, error) {
	var swap model.Swap
	if err := tx.Where("swap_id = ?", swapID).First(&swap).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

func (s *store) ListPending(tx *gorm.DB) ([]model.Swap, error) {
	var swaps []model.Swap
	err := tx.Where("status = ?", model.SwapStatusPending).
		Order("created_at ASC").
		Order("id ASC").
		Find(&swaps).Error
	if err != nil {
		return nil, err
	}
	return swaps, nil
}

func (s *store) ExistsFromChain(tx *gorm.DB, chain model.Chain) (bool, error) {
	var n int64
	err := tx.Model(&model.Swap{}).Where("from_chain = ?", chain).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *store) MarkCompleted(tx *gorm.DB, swapID, releaseTxHash string) (bool, error) {
	return s.transition(tx, swapID, model.SwapStatusCompleted, &releaseTxHash)
}

func (s *store) MarkFailed(tx *gorm.DB, swapID string) (bool, error) {
	return s.transition(tx, swapID, model.SwapStatusFailed, nil)
}

func (s *store) MarkRefunded(tx *gorm.DB, swapID, txHash string) (bool, error) {
	return s.transition(tx, swapID, model.SwapStatusRefunded, &txHash)
}

func (s *store) transition(tx *gorm.DB, swapID string, status model.SwapStatus, releaseTxHash *string) (bool, error) {
	res := tx.Model(&model.Swap{}).
		Where("swap_id = ? AND status = ?", swapID, model.SwapStatusPending).
		Updates(map[string]interface{}{
			"status":          status,
			"release_tx_hash": releaseTxHash,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
