package model

import "time"

const CasperEventCursorKey = "casper_lock_vault_last_event_index"

// ReleasedSwapKey records the release hash of a swap paid on chain.
func ReleasedSwapKey(swapID string) string {
	return "released_swap_" + swapID
}

type RelayerState struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(255)"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (RelayerState) TableName() string {
	return "relayer_state"
}
