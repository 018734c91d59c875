package store

import (
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/event"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/relayerstate"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/swap"
)

type Store struct {
	Event        event.IStore
	Swap         swap.IStore
	RelayerState relayerstate.IStore
}

func New() *Store {
	return &Store{
		Event:        event.New(),
		Swap:         swap.New(),
		RelayerState: relayerstate.New(),
	}
}
