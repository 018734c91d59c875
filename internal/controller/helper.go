package controller

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
)

var (
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrZeroAmount       = errors.New("converted amount is zero")
)

// validateEthereumRecipient accepts 0x-prefixed 20-byte hex addresses.
func validateEthereumRecipient(recipient string) (common.Address, error) {
	r := strings.TrimSpace(recipient)
	if !strings.HasPrefix(r, "0x") && !strings.HasPrefix(r, "0X") {
		return common.Address{}, errors.Wrapf(ErrInvalidRecipient, "%q is not a hex address", recipient)
	}
	if !common.IsHexAddress(r) {
		return common.Address{}, errors.Wrapf(ErrInvalidRecipient, "%q is not a hex address", recipient)
	}
	addr := common.HexToAddress(r)
	if addr == (common.Address{}) {
		return common.Address{}, errors.Wrap(ErrInvalidRecipient, "zero address")
	}
	return addr, nil
}

// validateCasperRecipient accepts a public key hex or an account-hash.
func validateCasperRecipient(recipient string) error {
	if _, err := casperrpc.RecipientAccountHash(strings.TrimSpace(recipient)); err != nil {
		return errors.Wrap(ErrInvalidRecipient, err.Error())
	}
	return nil
}

func positiveAmount(amount *model.Web3BigInt) (*big.Int, error) {
	v, ok := amount.BigInt()
	if !ok {
		return nil, errors.Errorf("invalid converted amount %q", amount.Value)
	}
	if v.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	return v, nil
}

func parseSwapID(swapID string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(swapID, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("swap id %q is not a uint256", swapID)
	}
	return v, nil
}
