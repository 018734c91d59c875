package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/testutil"
)

func TestDoInTx(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New()

	err := store.DoInTx(db, func(tx *gorm.DB) error {
		if err := s.RelayerState.Set(tx, "a", "1"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")

	_, ok, err := s.RelayerState.Get(db, "a")
	require.NoError(t, err)
	assert.False(t, ok, "rolled back write must not be visible")

	err = store.DoInTx(db, func(tx *gorm.DB) error {
		_, err := s.Event.CreateIfNotExists(tx, &model.Event{
			Chain:     model.ChainCasper,
			EventType: model.EventTypeContractEvent,
			TxHash:    "casper_event_hash-01_0",
		})
		if err != nil {
			return err
		}
		return s.RelayerState.Set(tx, model.CasperEventCursorKey, "0")
	})
	require.NoError(t, err)

	v, ok, err := s.RelayerState.Get(db, model.CasperEventCursorKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestDoInTxRollsBackOnPanic(t *testing.T) {
	db := testutil.NewDB(t)
	s := store.New()

	assert.Panics(t, func() {
		_ = store.DoInTx(db, func(tx *gorm.DB) error {
			_ = s.RelayerState.Set(tx, "b", "1")
			panic("bad")
		})
	})

	_, ok, err := s.RelayerState.Get(db, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}
