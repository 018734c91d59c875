package ethrpc

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/dwarvesf/casper-bridge-relayer/contracts/lockVault"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

// Backend is the slice of ethclient.Client the relayer needs.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

type EthRPC struct {
	appConfig *config.AppConfig
	logger    *logger.Logger

	backend      Backend
	vault        *lockVault.LockVault
	vaultAddress common.Address
	key          *ecdsa.PrivateKey
	relayer      common.Address
	chainID      *big.Int
}

func New(appConfig *config.AppConfig, logger *logger.Logger) (*EthRPC, error) {
	client, err := ethclient.Dial(appConfig.Ethereum.RPCEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "dial ethereum rpc")
	}
	return NewWithBackend(client, appConfig, logger)
}

func NewWithBackend(backend Backend, appConfig *config.AppConfig, logger *logger.Logger) (*EthRPC, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(appConfig.Ethereum.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse ethereum private key")
	}

	if !common.IsHexAddress(appConfig.Ethereum.ContractAddr) {
		return nil, errors.Errorf("invalid lock vault address %q", appConfig.Ethereum.ContractAddr)
	}
	vaultAddress := common.HexToAddress(appConfig.Ethereum.ContractAddr)
	vault, err := lockVault.NewLockVault(vaultAddress, backend)
	if err != nil {
		return nil, errors.Wrap(err, "bind lock vault")
	}

	return &EthRPC{
		appConfig:    appConfig,
		logger:       logger,
		backend:      backend,
		vault:        vault,
		vaultAddress: vaultAddress,
		key:          key,
		relayer:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:      big.NewInt(appConfig.Ethereum.ChainID),
	}, nil
}

func (e *EthRPC) RelayerAddress() common.Address {
	return e.relayer
}

func (e *EthRPC) BlockNumber(ctx context.Context) (uint64, error) {
	return e.backend.BlockNumber(ctx)
}

func (e *EthRPC) FilterDeposits(ctx context.Context, from, to uint64) ([]DepositEvent, error) {
	end := to
	iterator, err := e.vault.FilterDepositInitiated(&bind.FilterOpts{
		Start:   from,
		End:     &end,
		Context: ctx,
	}, nil, nil)
	if err != nil {
		e.logger.Error("[FilterDeposits][FilterDepositInitiated]", map[string]string{
			"error":     err.Error(),
			"fromBlock": fmt.Sprintf("%d", from),
			"toBlock":   fmt.Sprintf("%d", to),
		})
		return nil, err
	}
	defer iterator.Close()

	var deposits []DepositEvent
	for iterator.Next() {
		ev := iterator.Event
		deposits = append(deposits, DepositEvent{
			SwapID:      ev.SwapId,
			Depositor:   ev.Depositor,
			Amount:      ev.Amount,
			ToChain:     ev.ToChain,
			Recipient:   ev.Recipient,
			BlockNumber: ev.Raw.BlockNumber,
			TxHash:      ev.Raw.TxHash,
			LogIndex:    ev.Raw.Index,
		})
	}
	if err := iterator.Error(); err != nil {
		return nil, errors.Wrap(err, "iterate deposit logs")
	}

	return deposits, nil
}

func (e *EthRPC) Release(ctx context.Context, swapID *big.Int, recipient common.Address, amount *big.Int) (string, error) {
	var (
		tx  *types.Transaction
		err error
	)
	switch e.appConfig.Ethereum.ReleaseMode {
	case ReleaseModeTransfer:
		tx, err = e.sendNative(ctx, recipient, amount)
	default:
		tx, err = e.callRelease(ctx, swapID, recipient, amount)
	}
	if err != nil {
		e.logger.Error("[Release][submit]", map[string]string{
			"swapId":    swapID.String(),
			"recipient": recipient.Hex(),
			"error":     err.Error(),
		})
		return "", err
	}

	e.logger.Info("[Release] transaction submitted", map[string]string{
		"swapId": swapID.String(),
		"txHash": tx.Hash().Hex(),
	})

	if err := e.waitSuccess(ctx, tx); err != nil {
		e.logger.Error("[Release][WaitMined]", map[string]string{
			"swapId": swapID.String(),
			"txHash": tx.Hash().Hex(),
			"error":  err.Error(),
		})
		return "", err
	}

	return tx.Hash().Hex(), nil
}

func (e *EthRPC) callRelease(ctx context.Context, swapID *big.Int, recipient common.Address, amount *big.Int) (*types.Transaction, error) {
	signature, err := SignRelease(e.key, swapID, recipient, amount)
	if err != nil {
		return nil, errors.Wrap(err, "sign release")
	}

	opts, err := bind.NewKeyedTransactorWithChainID(e.key, e.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "create transactor")
	}
	opts.Context = ctx

	tx, err := e.vault.Release(opts, swapID, recipient, amount, signature)
	if err != nil {
		return nil, errors.Wrap(err, "send release transaction")
	}
	return tx, nil
}

func (e *EthRPC) sendNative(ctx context.Context, recipient common.Address, amount *big.Int) (*types.Transaction, error) {
	nonce, err := e.backend.PendingNonceAt(ctx, e.relayer)
	if err != nil {
		return nil, errors.Wrap(err, "get nonce")
	}
	gasPrice, err := e.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "suggest gas price")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &recipient,
		Value:    amount,
		Gas:      nativeTransferGas,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(e.chainID), e.key)
	if err != nil {
		return nil, errors.Wrap(err, "sign transfer")
	}
	if err := e.backend.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrap(err, "send transfer")
	}
	return signed, nil
}

func (e *EthRPC) waitSuccess(ctx context.Context, tx *types.Transaction) error {
	waitCtx, cancel := context.WithTimeout(ctx, e.appConfig.Ethereum.ConfirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, e.backend, tx)
	if err != nil {
		return errors.Wrap(err, "wait for receipt")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.Errorf("transaction %s reverted", tx.Hash().Hex())
	}
	return nil
}
