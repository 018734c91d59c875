package relayerstate

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

type store struct{}

func New() IStore {
	return &store{}
}

func (s *store) Get(tx *gorm.DB, key string) (string, bool, error) {
	var state model.RelayerState
	err := tx.Where(`"key" = ?`, key).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return state.Value, true, nil
}

func (s *store) Set(tx *gorm.DB, key, value string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.RelayerState{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}).Error
}
