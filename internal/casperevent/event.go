// Package casperevent decodes LockVault events stored in the contract's
// __events dictionary.
package casperevent

import "errors"

// ErrUnrecognized is returned for payloads that do not match a known event layout.
var ErrUnrecognized = errors.New("casperevent: unrecognized event payload")

type Kind string

const (
	KindDepositInitiated Kind = "DepositInitiated"
	KindReleaseExecuted  Kind = "ReleaseExecuted"
	KindRefundExecuted   Kind = "RefundExecuted"
)

type Event struct {
	Kind Kind
	// Name is the raw event name, e.g. "event_DepositInitiated".
	Name   string
	SwapID string
	Amount string

	// DepositInitiated only.
	Depositor string
	ToChain   string
	Recipient string
	Token     string

	// ReleaseExecuted and RefundExecuted. Account hash of the paid party.
	Beneficiary string
}

type Decoder interface {
	Version() string
	Decode(payload []byte) (*Event, error)
}
