package casperrpc

import (
	"context"
	"encoding/json"
	"math/big"
)

type ICasperRPC interface {
	// ContractHash is the LockVault hash as a "hash-<hex>" state key.
	ContractHash() string
	GetStateRootHash(ctx context.Context) (string, error)
	// EventsLength reads __events_length. ok is false when the length URef is
	// not known yet or the read failed.
	EventsLength(ctx context.Context, stateRootHash string) (length uint32, ok bool)
	// GetEvent returns the stored value at __events[index].
	GetEvent(ctx context.Context, stateRootHash string, index uint64) (json.RawMessage, error)
	// Release pays amount motes to recipient and returns the deploy hash.
	Release(ctx context.Context, swapID, recipient string, amount *big.Int) (string, error)
}
