package casperrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	methodStateRootHash     = "chain_get_state_root_hash"
	methodStateGetItem      = "state_get_item"
	methodGetDictionaryItem = "state_get_dictionary_item"
	methodPutDeploy         = "account_put_deploy"

	eventsDictionary = "__events"
	eventsLengthKey  = "__events_length"
)

const (
	ReleaseModeTransfer = "transfer"
	ReleaseModeContract = "contract"
)

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("casper rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("casper rpc error %d: %s", e.Code, e.Message)
}

// Node error codes for missing global state entries.
const (
	codeQueryFailed        = -32003
	codeDictionaryNotFound = -32026
)

// IsNotFound reports whether err means the requested key does not exist in
// global state, e.g. an __events index past the end.
func IsNotFound(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	if rpcErr.Code == codeQueryFailed || rpcErr.Code == codeDictionaryNotFound {
		return true
	}
	msg := rpcErr.Message + " " + string(rpcErr.Data)
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "ValueNotFound") ||
		strings.Contains(msg, "Failed to find")
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

type NamedKey struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type CLValueJSON struct {
	CLType json.RawMessage `json:"cl_type"`
	Bytes  string          `json:"bytes"`
	Parsed json.RawMessage `json:"parsed"`
}

type StoredValue struct {
	CLValue  *CLValueJSON `json:"CLValue,omitempty"`
	Contract *struct {
		NamedKeys []NamedKey `json:"named_keys"`
	} `json:"Contract,omitempty"`
}

type stateRootHashResult struct {
	StateRootHash string `json:"state_root_hash"`
}

type getItemParams struct {
	StateRootHash string   `json:"state_root_hash"`
	Key           string   `json:"key"`
	Path          []string `json:"path"`
}

type getItemResult struct {
	StoredValue json.RawMessage `json:"stored_value"`
}

type uRefIdentifier struct {
	SeedURef          string `json:"seed_uref"`
	DictionaryItemKey string `json:"dictionary_item_key"`
}

type namedKeyIdentifier struct {
	Key               string `json:"key"`
	DictionaryName    string `json:"dictionary_name"`
	DictionaryItemKey string `json:"dictionary_item_key"`
}

type dictionaryIdentifier struct {
	URef             *uRefIdentifier     `json:"URef,omitempty"`
	ContractNamedKey *namedKeyIdentifier `json:"ContractNamedKey,omitempty"`
}

type getDictionaryItemParams struct {
	StateRootHash        string               `json:"state_root_hash"`
	DictionaryIdentifier dictionaryIdentifier `json:"dictionary_identifier"`
}

type getDictionaryItemResult struct {
	DictionaryKey string          `json:"dictionary_key"`
	StoredValue   json.RawMessage `json:"stored_value"`
}

type putDeployParams struct {
	Deploy *Deploy `json:"deploy"`
}

type putDeployResult struct {
	DeployHash string `json:"deploy_hash"`
}
