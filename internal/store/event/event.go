package event

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) CreateIfNotExists(tx *gorm.DB, event *model.Event) (bool, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain"}, {Name: "tx_hash"}},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) GetByTxHash(tx *gorm.DB, chain model.Chain, txHash string) (*model.Event, error) {
	var event model.Event
	if err := tx.Where("chain = ? AND tx_hash = ?", chain, txHash).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *store) Count(tx *gorm.DB, chain model.Chain) (int64, error) {
	var n int64
	err := tx.Model(&model.Event{}).Where("chain = ?", chain).Count(&n).Error
	return n, err
}
