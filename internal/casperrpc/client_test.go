package casperrpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

const (
	testContractHex = "aa00000000000000000000000000000000000000000000000000000000000001"
	testSeedURef    = "uref-1111111111111111111111111111111111111111111111111111111111111111-007"
	testLengthURef  = "uref-2222222222222222222222222222222222222222222222222222222222222222-007"
)

type fakeNode struct {
	mu        sync.Mutex
	calls     map[string]int
	itemKeys  map[string]int
	requests  map[string][]json.RawMessage
	namedKeys []NamedKey
	length    string
	handler   func(method string, params json.RawMessage) (interface{}, *RPCError)
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		calls:    map[string]int{},
		itemKeys: map[string]int{},
		requests: map[string][]json.RawMessage{},
		namedKeys: []NamedKey{
			{Name: "__events", Key: testSeedURef},
			{Name: "__events_length", Key: testLengthURef},
			{Name: "owner", Key: "account-hash-00"},
		},
		length: "03000000",
	}
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	f.requests[req.Method] = append(f.requests[req.Method], req.Params)
	f.mu.Unlock()

	result, rpcErr := f.dispatch(req.Method, req.Params)
	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeNode) dispatch(method string, params json.RawMessage) (interface{}, *RPCError) {
	if f.handler != nil {
		return f.handler(method, params)
	}
	switch method {
	case methodStateRootHash:
		return map[string]string{"state_root_hash": "root-1"}, nil
	case methodStateGetItem:
		var p getItemParams
		_ = json.Unmarshal(params, &p)
		f.mu.Lock()
		f.itemKeys[p.Key]++
		f.mu.Unlock()
		switch p.Key {
		case "hash-" + testContractHex:
			return map[string]interface{}{
				"stored_value": map[string]interface{}{
					"Contract": map[string]interface{}{"named_keys": f.namedKeys},
				},
			}, nil
		case testLengthURef:
			return map[string]interface{}{
				"stored_value": map[string]interface{}{
					"CLValue": map[string]interface{}{"cl_type": "U32", "bytes": f.length, "parsed": 3},
				},
			}, nil
		}
		return nil, &RPCError{Code: codeQueryFailed, Message: "Query failed: ValueNotFound"}
	case methodGetDictionaryItem:
		var p getDictionaryItemParams
		_ = json.Unmarshal(params, &p)
		key := ""
		if p.DictionaryIdentifier.URef != nil {
			key = p.DictionaryIdentifier.URef.DictionaryItemKey
		} else if p.DictionaryIdentifier.ContractNamedKey != nil {
			key = p.DictionaryIdentifier.ContractNamedKey.DictionaryItemKey
		}
		if key == "9" {
			return nil, &RPCError{Code: codeDictionaryNotFound, Message: "No such dictionary item"}
		}
		return map[string]interface{}{
			"dictionary_key": "dictionary-" + key,
			"stored_value": map[string]interface{}{
				"CLValue": map[string]interface{}{"cl_type": "Any", "bytes": "0a0b", "parsed": nil},
			},
		}, nil
	case methodPutDeploy:
		var p struct {
			Deploy struct {
				Hash string `json:"hash"`
			} `json:"deploy"`
		}
		_ = json.Unmarshal(params, &p)
		return map[string]string{"deploy_hash": p.Deploy.Hash}, nil
	}
	return nil, &RPCError{Code: -32601, Message: "method not found"}
}

func (f *fakeNode) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeNode) itemReads(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.itemKeys[key]
}

func (f *fakeNode) last(method string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[method]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, node *fakeNode, mutate func(cfg *config.AppConfig)) *Client {
	t.Helper()
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	seed := make([]byte, 32)
	seed[31] = 9
	cfg := &config.AppConfig{
		Casper: config.CasperConfig{
			RPCEndpoint:   srv.URL,
			ContractHash:  "contract-" + testContractHex,
			NetworkName:   "casper-test",
			PrivateKey:    hex.EncodeToString(seed),
			KeyAlgorithm:  AlgorithmEd25519,
			ReleaseMode:   ReleaseModeTransfer,
			PaymentAmount: 100000000,
			DeployTTL:     30 * time.Minute,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	c, err := New(cfg, logger.NewNop())
	require.NoError(t, err)
	c.retry = RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond}
	c.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return c
}

func TestNormalizeContractHash(t *testing.T) {
	assert.Equal(t, "hash-ab", NormalizeContractHash("contract-ab"))
	assert.Equal(t, "hash-ab", NormalizeContractHash("hash-ab"))
	assert.Equal(t, "hash-ab", NormalizeContractHash(" ab "))
}

func TestClient_GetStateRootHash(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node, nil)

	root, err := c.GetStateRootHash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "root-1", root)
}

func TestClient_EventsLength(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node, nil)
	ctx := context.Background()

	n, ok := c.EventsLength(ctx, "root-1")
	require.True(t, ok)
	assert.EqualValues(t, 3, n)

	_, ok = c.EventsLength(ctx, "root-1")
	require.True(t, ok)
	assert.Equal(t, 1, node.itemReads("hash-"+testContractHex), "named keys are cached once the seed is known")
	assert.Equal(t, 2, node.itemReads(testLengthURef))
}

func TestClient_EventsLength_Unavailable(t *testing.T) {
	t.Run("no length key", func(t *testing.T) {
		node := newFakeNode()
		node.namedKeys = []NamedKey{{Name: "__events", Key: testSeedURef}}
		c := newTestClient(t, node, nil)

		_, ok := c.EventsLength(context.Background(), "root-1")
		assert.False(t, ok)
	})

	t.Run("contract lookup fails", func(t *testing.T) {
		node := newFakeNode()
		node.handler = func(method string, params json.RawMessage) (interface{}, *RPCError) {
			return nil, &RPCError{Code: -32000, Message: "boom"}
		}
		c := newTestClient(t, node, nil)

		_, ok := c.EventsLength(context.Background(), "root-1")
		assert.False(t, ok)

		// resolution is attempted again on the next call
		_, ok = c.EventsLength(context.Background(), "root-1")
		assert.False(t, ok)
		assert.Equal(t, 2, node.count(methodStateGetItem))
	})

	t.Run("short bytes", func(t *testing.T) {
		node := newFakeNode()
		node.length = "0300"
		c := newTestClient(t, node, nil)

		_, ok := c.EventsLength(context.Background(), "root-1")
		assert.False(t, ok)
	})
}

func TestClient_GetEvent(t *testing.T) {
	t.Run("by seed uref", func(t *testing.T) {
		node := newFakeNode()
		c := newTestClient(t, node, nil)
		ctx := context.Background()
		_, _ = c.EventsLength(ctx, "root-1")

		raw, err := c.GetEvent(ctx, "root-1", 2)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "0a0b")

		var p getDictionaryItemParams
		require.NoError(t, json.Unmarshal(node.last(methodGetDictionaryItem), &p))
		require.NotNil(t, p.DictionaryIdentifier.URef)
		assert.Equal(t, testSeedURef, p.DictionaryIdentifier.URef.SeedURef)
		assert.Equal(t, "2", p.DictionaryIdentifier.URef.DictionaryItemKey)
		assert.Equal(t, "root-1", p.StateRootHash)
	})

	t.Run("by contract named key when the seed is unknown", func(t *testing.T) {
		node := newFakeNode()
		c := newTestClient(t, node, nil)

		_, err := c.GetEvent(context.Background(), "root-1", 0)
		require.NoError(t, err)

		var p getDictionaryItemParams
		require.NoError(t, json.Unmarshal(node.last(methodGetDictionaryItem), &p))
		require.NotNil(t, p.DictionaryIdentifier.ContractNamedKey)
		assert.Equal(t, "hash-"+testContractHex, p.DictionaryIdentifier.ContractNamedKey.Key)
		assert.Equal(t, "__events", p.DictionaryIdentifier.ContractNamedKey.DictionaryName)
		assert.Equal(t, "0", p.DictionaryIdentifier.ContractNamedKey.DictionaryItemKey)
	})

	t.Run("missing index is not found and not retried", func(t *testing.T) {
		node := newFakeNode()
		c := newTestClient(t, node, nil)

		_, err := c.GetEvent(context.Background(), "root-1", 9)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, 1, node.count(methodGetDictionaryItem))
	})
}

func TestClient_Release_Transfer(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node, nil)
	recipient := c.PublicKey().Hex()

	hash, err := c.Release(context.Background(), "42", recipient, big.NewInt(5_000_000_000))
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.Equal(t, 1, node.count(methodPutDeploy))

	var p struct {
		Deploy struct {
			Hash   string `json:"hash"`
			Header struct {
				Account   string `json:"account"`
				Timestamp string `json:"timestamp"`
				TTL       string `json:"ttl"`
				ChainName string `json:"chain_name"`
			} `json:"header"`
			Payment map[string]json.RawMessage `json:"payment"`
			Session map[string]json.RawMessage `json:"session"`
		} `json:"deploy"`
	}
	require.NoError(t, json.Unmarshal(node.last(methodPutDeploy), &p))
	assert.Equal(t, hash, p.Deploy.Hash)
	assert.Equal(t, recipient, p.Deploy.Header.Account)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", p.Deploy.Header.Timestamp)
	assert.Equal(t, "30m", p.Deploy.Header.TTL)
	assert.Equal(t, "casper-test", p.Deploy.Header.ChainName)
	assert.Contains(t, p.Deploy.Payment, "ModuleBytes")
	assert.Contains(t, p.Deploy.Session, "Transfer")
}

func TestClient_Release_Contract(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node, func(cfg *config.AppConfig) {
		cfg.Casper.ReleaseMode = ReleaseModeContract
	})
	recipient := "account-hash-" + strings.Repeat("ab", 32)

	_, err := c.Release(context.Background(), "7", recipient, big.NewInt(1000))
	require.NoError(t, err)

	var p struct {
		Deploy struct {
			Session struct {
				StoredContractByHash struct {
					Hash       string              `json:"hash"`
					EntryPoint string              `json:"entry_point"`
					Args       [][]json.RawMessage `json:"args"`
				} `json:"StoredContractByHash"`
			} `json:"session"`
		} `json:"deploy"`
	}
	require.NoError(t, json.Unmarshal(node.last(methodPutDeploy), &p))
	session := p.Deploy.Session.StoredContractByHash
	assert.Equal(t, testContractHex, session.Hash)
	assert.Equal(t, "release", session.EntryPoint)
	require.Len(t, session.Args, 3)
	assert.JSONEq(t, `"swap_id"`, string(session.Args[0][0]))
	assert.JSONEq(t, `"recipient"`, string(session.Args[1][0]))
	assert.JSONEq(t, `"amount"`, string(session.Args[2][0]))

	_, err = c.Release(context.Background(), "not-a-number", recipient, big.NewInt(1))
	assert.Error(t, err)
	assert.Equal(t, 1, node.count(methodPutDeploy))
}

func TestClient_Release_RejectsBadRecipient(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node, nil)

	_, err := c.Release(context.Background(), "1", "0x2222222222222222222222222222222222222222", big.NewInt(1))
	assert.Error(t, err)
	assert.Equal(t, 0, node.count(methodPutDeploy))
}

func TestClient_Release_NodeRejects(t *testing.T) {
	node := newFakeNode()
	node.handler = func(method string, params json.RawMessage) (interface{}, *RPCError) {
		return nil, &RPCError{Code: -32008, Message: "invalid deploy"}
	}
	c := newTestClient(t, node, nil)

	_, err := c.Release(context.Background(), "1", c.PublicKey().Hex(), big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid deploy")
	assert.Equal(t, 1, node.count(methodPutDeploy))
}
