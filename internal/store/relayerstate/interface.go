package relayerstate

import "gorm.io/gorm"

type IStore interface {
	// Get returns the stored value, or ok=false when the key was never set.
	Get(tx *gorm.DB, key string) (value string, ok bool, err error)
	Set(tx *gorm.DB, key, value string) error
}
