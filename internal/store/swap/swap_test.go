package swap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/swap"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/testutil"
)

func newSwap(id string, from, to model.Chain) *model.Swap {
	hash := "0xdeposit" + id
	return &model.Swap{
		SwapID:        id,
		UserAddress:   "0x1111111111111111111111111111111111111111",
		FromChain:     from,
		ToChain:       to,
		TokenAddress:  model.NativeTokenAddress,
		Amount:        "1000",
		Recipient:     "account-hash-00",
		DepositTxHash: &hash,
	}
}

func TestCreateIfNotExists(t *testing.T) {
	db := testutil.NewDB(t)
	s := swap.New()

	created, err := s.CreateIfNotExists(db, newSwap("7", model.ChainEthereum, model.ChainCasper))
	require.NoError(t, err)
	assert.True(t, created)

	again := newSwap("7", model.ChainCasper, model.ChainEthereum)
	again.Amount = "1"
	created, err = s.CreateIfNotExists(db, again)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := s.GetBySwapID(db, "7")
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Amount)
	assert.Equal(t, model.ChainEthereum, got.FromChain)
	assert.Equal(t, model.SwapStatusPending, got.Status)
	assert.Nil(t, got.ReleaseTxHash)

	_, err = s.GetBySwapID(db, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListPending(t *testing.T) {
	db := testutil.NewDB(t)
	s := swap.New()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"3", "1", "2"} {
		sw := newSwap(id, model.ChainEthereum, model.ChainCasper)
		sw.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := s.CreateIfNotExists(db, sw)
		require.NoError(t, err)
	}
	_, err := s.MarkCompleted(db, "1", "0xrelease")
	require.NoError(t, err)

	pending, err := s.ListPending(db)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "3", pending[0].SwapID)
	assert.Equal(t, "2", pending[1].SwapID)
}

func TestTransitionsOnlyLeavePending(t *testing.T) {
	tests := []struct {
		name       string
		apply      func(s swap.IStore, db *gorm.DB) (bool, error)
		wantStatus model.SwapStatus
		wantHash   *string
	}{
		{
			name: "completed",
			apply: func(s swap.IStore, db *gorm.DB) (bool, error) {
				return s.MarkCompleted(db, "9", "deploy-hash")
			},
			wantStatus: model.SwapStatusCompleted,
			wantHash:   strPtr("deploy-hash"),
		},
		{
			name: "failed",
			apply: func(s swap.IStore, db *gorm.DB) (bool, error) {
				return s.MarkFailed(db, "9")
			},
			wantStatus: model.SwapStatusFailed,
		},
		{
			name: "refunded",
			apply: func(s swap.IStore, db *gorm.DB) (bool, error) {
				return s.MarkRefunded(db, "9", "casper_event_hash-aa_3")
			},
			wantStatus: model.SwapStatusRefunded,
			wantHash:   strPtr("casper_event_hash-aa_3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			s := swap.New()
			_, err := s.CreateIfNotExists(db, newSwap("9", model.ChainCasper, model.ChainEthereum))
			require.NoError(t, err)

			changed, err := tt.apply(s, db)
			require.NoError(t, err)
			assert.True(t, changed)

			got, err := s.GetBySwapID(db, "9")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantHash, got.ReleaseTxHash)

			// a terminal swap never moves again
			changed, err = s.MarkCompleted(db, "9", "other")
			require.NoError(t, err)
			assert.False(t, changed)
			changed, err = s.MarkFailed(db, "9")
			require.NoError(t, err)
			assert.False(t, changed)

			got, err = s.GetBySwapID(db, "9")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantHash, got.ReleaseTxHash)
		})
	}
}

func TestExistsFromChain(t *testing.T) {
	db := testutil.NewDB(t)
	s := swap.New()

	ok, err := s.ExistsFromChain(db, model.ChainCasper)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CreateIfNotExists(db, newSwap("1", model.ChainCasper, model.ChainEthereum))
	require.NoError(t, err)

	ok, err = s.ExistsFromChain(db, model.ChainCasper)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.ExistsFromChain(db, model.ChainEthereum)
	require.NoError(t, err)
	assert.False(t, ok)
}

func strPtr(s string) *string {
	return &s
}
