package casperrpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	itemModuleBytes          byte = 0
	itemStoredContractByHash byte = 1
	itemTransfer             byte = 5
)

// ExecutableItem is a payment or session item of a deploy.
type ExecutableItem struct {
	tag        byte
	hash       [32]byte
	entryPoint string
	Args       []NamedArg
}

// StandardPayment pays amount motes from the caller's main purse.
func StandardPayment(amount uint64) ExecutableItem {
	return ExecutableItem{
		tag:  itemModuleBytes,
		Args: []NamedArg{{Name: "amount", Value: U512Value(new(big.Int).SetUint64(amount))}},
	}
}

func TransferItem(args []NamedArg) ExecutableItem {
	return ExecutableItem{tag: itemTransfer, Args: args}
}

func StoredContractByHashItem(hash [32]byte, entryPoint string, args []NamedArg) ExecutableItem {
	return ExecutableItem{tag: itemStoredContractByHash, hash: hash, entryPoint: entryPoint, Args: args}
}

func (i ExecutableItem) ToBytes() []byte {
	out := []byte{i.tag}
	switch i.tag {
	case itemModuleBytes:
		out = appendBytes(out, nil)
	case itemStoredContractByHash:
		out = append(out, i.hash[:]...)
		out = appendString(out, i.entryPoint)
	}
	return append(out, argsBytes(i.Args)...)
}

func (i ExecutableItem) MarshalJSON() ([]byte, error) {
	args := i.Args
	if args == nil {
		args = []NamedArg{}
	}
	switch i.tag {
	case itemModuleBytes:
		return json.Marshal(map[string]interface{}{
			"ModuleBytes": map[string]interface{}{"module_bytes": "", "args": args},
		})
	case itemStoredContractByHash:
		return json.Marshal(map[string]interface{}{
			"StoredContractByHash": map[string]interface{}{
				"hash":        hexEncode(i.hash[:]),
				"entry_point": i.entryPoint,
				"args":        args,
			},
		})
	case itemTransfer:
		return json.Marshal(map[string]interface{}{
			"Transfer": map[string]interface{}{"args": args},
		})
	}
	return nil, fmt.Errorf("unknown executable item tag %d", i.tag)
}

type DeployHeader struct {
	Account      string   `json:"account"`
	Timestamp    string   `json:"timestamp"`
	TTL          string   `json:"ttl"`
	GasPrice     uint64   `json:"gas_price"`
	BodyHash     string   `json:"body_hash"`
	Dependencies []string `json:"dependencies"`
	ChainName    string   `json:"chain_name"`
}

type Approval struct {
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

type Deploy struct {
	Hash      string         `json:"hash"`
	Header    DeployHeader   `json:"header"`
	Payment   ExecutableItem `json:"payment"`
	Session   ExecutableItem `json:"session"`
	Approvals []Approval     `json:"approvals"`
}

type DeployParams struct {
	Account   PublicKey
	Timestamp time.Time
	TTL       time.Duration
	GasPrice  uint64
	ChainName string
}

// NewDeploy hashes and signs a deploy. It carries no dependencies.
func NewDeploy(params DeployParams, payment, session ExecutableItem, signer Signer) (*Deploy, error) {
	bodyHash := blake2b.Sum256(append(payment.ToBytes(), session.ToBytes()...))

	timestampMs := params.Timestamp.UnixMilli()
	header := params.Account.Bytes()
	header = appendU64(header, uint64(timestampMs))
	header = appendU64(header, uint64(params.TTL.Milliseconds()))
	header = appendU64(header, params.GasPrice)
	header = append(header, bodyHash[:]...)
	header = appendU32(header, 0)
	header = appendString(header, params.ChainName)
	deployHash := blake2b.Sum256(header)

	signature, err := signer.Sign(deployHash[:])
	if err != nil {
		return nil, err
	}

	return &Deploy{
		Hash: hexEncode(deployHash[:]),
		Header: DeployHeader{
			Account:      params.Account.Hex(),
			Timestamp:    time.UnixMilli(timestampMs).UTC().Format("2006-01-02T15:04:05.000Z"),
			TTL:          formatTTL(params.TTL),
			GasPrice:     params.GasPrice,
			BodyHash:     hexEncode(bodyHash[:]),
			Dependencies: []string{},
			ChainName:    params.ChainName,
		},
		Payment: payment,
		Session: session,
		Approvals: []Approval{{
			Signer:    signer.PublicKey().Hex(),
			Signature: hexEncode(signature),
		}},
	}, nil
}

// formatTTL renders a duration the way the node's humantime parser reads it.
func formatTTL(d time.Duration) string {
	switch {
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	case d%time.Second == 0:
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
