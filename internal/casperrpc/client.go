package casperrpc

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type Client struct {
	appConfig *config.AppConfig
	logger    *logger.Logger

	http         *resty.Client
	endpoint     string
	contractHash string
	signer       Signer
	retry        RetryPolicy
	now          func() time.Time

	mu               sync.Mutex
	eventsSeedURef   string
	eventsLengthURef string
	loggedNamedKeys  bool
}

func New(appConfig *config.AppConfig, logger *logger.Logger) (*Client, error) {
	var (
		signer Signer
		err    error
	)
	if appConfig.Casper.PrivateKeyPath != "" {
		signer, err = LoadPrivateKeyPEM(appConfig.Casper.PrivateKeyPath)
	} else {
		signer, err = ParsePrivateKeyHex(appConfig.Casper.PrivateKey, appConfig.Casper.KeyAlgorithm)
	}
	if err != nil {
		return nil, errors.Wrap(err, "load casper key")
	}

	timeout := appConfig.Casper.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		appConfig:    appConfig,
		logger:       logger,
		http:         resty.New().SetTimeout(timeout).SetHeader("Content-Type", "application/json"),
		endpoint:     appConfig.Casper.RPCEndpoint,
		contractHash: NormalizeContractHash(appConfig.Casper.ContractHash),
		signer:       signer,
		retry:        DefaultRetryPolicy(),
		now:          time.Now,
	}, nil
}

// NormalizeContractHash turns "contract-<hex>", "hash-<hex>" or bare hex into "hash-<hex>".
func NormalizeContractHash(raw string) string {
	h := strings.TrimSpace(raw)
	h = strings.TrimPrefix(h, "hash-")
	h = strings.TrimPrefix(h, "contract-")
	return "hash-" + h
}

func (c *Client) ContractHash() string {
	return c.contractHash
}

func (c *Client) PublicKey() PublicKey {
	return c.signer.PublicKey()
}

func (c *Client) call(ctx context.Context, method string, params, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{
			JSONRPC: "2.0",
			ID:      uuid.NewString(),
			Method:  method,
			Params:  params,
		}).
		Post(c.endpoint)
	if err != nil {
		return err
	}

	var body rpcResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.IsError() {
			return fmt.Errorf("%s: http status %d: %s", method, resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
		}
		return errors.Wrapf(err, "%s: decode response", method)
	}
	if body.Error != nil {
		return body.Error
	}
	if resp.IsError() {
		return fmt.Errorf("%s: http status %d", method, resp.StatusCode())
	}
	if out == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(body.Result, out), "%s: decode result", method)
}

func (c *Client) GetStateRootHash(ctx context.Context) (string, error) {
	return Retry(ctx, c.retry, func(ctx context.Context) (string, error) {
		var res stateRootHashResult
		if err := c.call(ctx, methodStateRootHash, map[string]interface{}{}, &res); err != nil {
			return "", err
		}
		if res.StateRootHash == "" {
			return "", errors.New("empty state root hash")
		}
		return res.StateRootHash, nil
	})
}

// GetItem queries global state under key and returns the raw stored value.
func (c *Client) GetItem(ctx context.Context, stateRootHash, key string) (json.RawMessage, error) {
	return Retry(ctx, c.retry, func(ctx context.Context) (json.RawMessage, error) {
		var res getItemResult
		err := c.call(ctx, methodStateGetItem, getItemParams{
			StateRootHash: stateRootHash,
			Key:           key,
			Path:          []string{},
		}, &res)
		if err != nil {
			return nil, err
		}
		return res.StoredValue, nil
	})
}

func (c *Client) getDictionaryItem(ctx context.Context, stateRootHash string, id dictionaryIdentifier) (json.RawMessage, error) {
	return Retry(ctx, c.retry, func(ctx context.Context) (json.RawMessage, error) {
		var res getDictionaryItemResult
		err := c.call(ctx, methodGetDictionaryItem, getDictionaryItemParams{
			StateRootHash:        stateRootHash,
			DictionaryIdentifier: id,
		}, &res)
		if err != nil {
			return nil, err
		}
		return res.StoredValue, nil
	})
}

// resolveEventURefs reads the contract's named keys until the __events seed
// URef is found. Failures are logged and retried on the next call.
func (c *Client) resolveEventURefs(ctx context.Context, stateRootHash string) {
	c.mu.Lock()
	resolved := c.eventsSeedURef != ""
	c.mu.Unlock()
	if resolved {
		return
	}

	raw, err := c.GetItem(ctx, stateRootHash, c.contractHash)
	if err != nil {
		c.logger.Warn("[resolveEventURefs][GetItem] failed to read contract named keys", map[string]string{
			"contractHash": c.contractHash,
			"error":        err.Error(),
		})
		return
	}

	var stored StoredValue
	if err := json.Unmarshal(raw, &stored); err != nil || stored.Contract == nil {
		c.logger.Warn("[resolveEventURefs] stored value is not a contract", map[string]string{
			"contractHash": c.contractHash,
		})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loggedNamedKeys {
		c.loggedNamedKeys = true
		names := make([]string, 0, len(stored.Contract.NamedKeys))
		for _, nk := range stored.Contract.NamedKeys {
			names = append(names, nk.Name+"="+nk.Key)
		}
		c.logger.Info("[resolveEventURefs] contract named keys", map[string]string{
			"contractHash": c.contractHash,
			"namedKeys":    strings.Join(names, ","),
		})
	}

	for _, nk := range stored.Contract.NamedKeys {
		if !strings.HasPrefix(nk.Key, "uref-") {
			continue
		}
		switch nk.Name {
		case eventsDictionary:
			c.eventsSeedURef = nk.Key
		case eventsLengthKey:
			c.eventsLengthURef = nk.Key
		}
	}
	if c.eventsSeedURef == "" {
		c.logger.Warn("[resolveEventURefs] __events seed uref not found, using contract named key lookups", map[string]string{
			"contractHash": c.contractHash,
		})
	}
}

func (c *Client) EventsLength(ctx context.Context, stateRootHash string) (uint32, bool) {
	c.resolveEventURefs(ctx, stateRootHash)

	c.mu.Lock()
	lengthURef := c.eventsLengthURef
	c.mu.Unlock()
	if lengthURef == "" {
		return 0, false
	}

	raw, err := c.GetItem(ctx, stateRootHash, lengthURef)
	if err != nil {
		c.logger.Debug("[EventsLength][GetItem]", map[string]string{
			"uref":  lengthURef,
			"error": err.Error(),
		})
		return 0, false
	}

	var stored StoredValue
	if err := json.Unmarshal(raw, &stored); err != nil || stored.CLValue == nil {
		return 0, false
	}
	b, err := hex.DecodeString(strings.TrimPrefix(stored.CLValue.Bytes, "0x"))
	if err != nil || len(b) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[:4]), true
}

func (c *Client) GetEvent(ctx context.Context, stateRootHash string, index uint64) (json.RawMessage, error) {
	itemKey := strconv.FormatUint(index, 10)

	c.mu.Lock()
	seed := c.eventsSeedURef
	c.mu.Unlock()

	var id dictionaryIdentifier
	if seed != "" {
		id.URef = &uRefIdentifier{SeedURef: seed, DictionaryItemKey: itemKey}
	} else {
		id.ContractNamedKey = &namedKeyIdentifier{
			Key:               c.contractHash,
			DictionaryName:    eventsDictionary,
			DictionaryItemKey: itemKey,
		}
	}
	return c.getDictionaryItem(ctx, stateRootHash, id)
}

func (c *Client) PutDeploy(ctx context.Context, deploy *Deploy) (string, error) {
	// submission is not retried so a lost response cannot double-send
	var res putDeployResult
	if err := c.call(ctx, methodPutDeploy, putDeployParams{Deploy: deploy}, &res); err != nil {
		return "", err
	}
	if res.DeployHash == "" {
		return deploy.Hash, nil
	}
	return res.DeployHash, nil
}

func (c *Client) Release(ctx context.Context, swapID, recipient string, amount *big.Int) (string, error) {
	var (
		session ExecutableItem
		err     error
	)
	switch c.appConfig.Casper.ReleaseMode {
	case ReleaseModeContract:
		session, err = c.contractReleaseSession(swapID, recipient, amount)
	default:
		session, err = TransferSession(swapID, recipient, amount)
	}
	if err != nil {
		return "", err
	}

	ttl := c.appConfig.Casper.DeployTTL
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	deploy, err := NewDeploy(DeployParams{
		Account:   c.signer.PublicKey(),
		Timestamp: c.now(),
		TTL:       ttl,
		GasPrice:  1,
		ChainName: c.appConfig.Casper.NetworkName,
	}, StandardPayment(c.appConfig.Casper.PaymentAmount), session, c.signer)
	if err != nil {
		return "", errors.Wrap(err, "sign deploy")
	}

	hash, err := c.PutDeploy(ctx, deploy)
	if err != nil {
		c.logger.Error("[Release][PutDeploy]", map[string]string{
			"swapId":     swapID,
			"deployHash": deploy.Hash,
			"error":      err.Error(),
		})
		return "", err
	}

	c.logger.Info("[Release] deploy submitted", map[string]string{
		"swapId":     swapID,
		"deployHash": hash,
		"recipient":  recipient,
		"amount":     amount.String(),
	})
	return hash, nil
}

// TransferSession builds native transfer args. The transfer id is the swap id
// when it is numeric.
func TransferSession(swapID, recipient string, amount *big.Int) (ExecutableItem, error) {
	target, err := TransferTarget(recipient)
	if err != nil {
		return ExecutableItem{}, err
	}

	var id *uint64
	if n, err := strconv.ParseUint(swapID, 10, 64); err == nil {
		id = &n
	}

	return TransferItem([]NamedArg{
		{Name: "amount", Value: U512Value(amount)},
		{Name: "target", Value: target},
		{Name: "id", Value: OptionU64Value(id)},
	}), nil
}

func (c *Client) contractReleaseSession(swapID, recipient string, amount *big.Int) (ExecutableItem, error) {
	id, err := strconv.ParseUint(swapID, 10, 64)
	if err != nil {
		return ExecutableItem{}, errors.Errorf("swap id %q is not a u64", swapID)
	}
	account, err := RecipientAccountHash(recipient)
	if err != nil {
		return ExecutableItem{}, err
	}

	var hash [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(c.contractHash, "hash-"))
	if err != nil || len(raw) != len(hash) {
		return ExecutableItem{}, errors.Errorf("invalid contract hash %q", c.contractHash)
	}
	copy(hash[:], raw)

	return StoredContractByHashItem(hash, "release", []NamedArg{
		{Name: "swap_id", Value: U64Value(id)},
		{Name: "recipient", Value: AccountKeyValue(account)},
		{Name: "amount", Value: U256Value(amount)},
	}), nil
}

// TransferTarget is a PublicKey for "01…"/"02…" recipients and a 32-byte
// account hash for "account-hash-…" recipients.
func TransferTarget(recipient string) (CLValue, error) {
	if strings.HasPrefix(recipient, "account-hash-") {
		hash, err := parseAccountHash(recipient)
		if err != nil {
			return CLValue{}, err
		}
		return ByteArrayValue(hash[:]), nil
	}
	pk, err := ParsePublicKey(recipient)
	if err != nil {
		return CLValue{}, errors.Wrapf(err, "invalid casper recipient %q", recipient)
	}
	return PublicKeyValue(pk), nil
}

// RecipientAccountHash resolves a public key or account-hash recipient to its account hash.
func RecipientAccountHash(recipient string) ([32]byte, error) {
	if strings.HasPrefix(recipient, "account-hash-") {
		return parseAccountHash(recipient)
	}
	pk, err := ParsePublicKey(recipient)
	if err != nil {
		return [32]byte{}, errors.Wrapf(err, "invalid casper recipient %q", recipient)
	}
	return pk.AccountHash(), nil
}

func parseAccountHash(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "account-hash-"))
	if err != nil || len(raw) != len(out) {
		return out, errors.Errorf("invalid account hash %q", s)
	}
	copy(out[:], raw)
	return out, nil
}
