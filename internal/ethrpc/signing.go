package ethrpc

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ReleaseMessageHash is keccak256(abi.encodePacked(uint256 swapId, address recipient, uint256 amount)).
func ReleaseMessageHash(swapID *big.Int, recipient common.Address, amount *big.Int) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(swapID.Bytes(), 32),
		recipient.Bytes(),
		common.LeftPadBytes(amount.Bytes(), 32),
	)
}

// SignRelease signs the release hash as an EIP-191 personal message. V is 27 or 28.
func SignRelease(key *ecdsa.PrivateKey, swapID *big.Int, recipient common.Address, amount *big.Int) ([]byte, error) {
	digest := accounts.TextHash(ReleaseMessageHash(swapID, recipient, amount).Bytes())
	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
