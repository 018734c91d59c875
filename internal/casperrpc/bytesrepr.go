package casperrpc

import (
	"encoding/binary"
	"encoding/json"
	"math/big"
)

// CLType tags from casper-types.
const (
	clTypeU64       byte = 5
	clTypeU256      byte = 7
	clTypeU512      byte = 8
	clTypeString    byte = 10
	clTypeKey       byte = 11
	clTypeOption    byte = 13
	clTypeByteArray byte = 15
	clTypePublicKey byte = 22
)

type CLType struct {
	tag   byte
	inner *CLType
	size  uint32
}

var (
	TypeU64       = CLType{tag: clTypeU64}
	TypeU256      = CLType{tag: clTypeU256}
	TypeU512      = CLType{tag: clTypeU512}
	TypeString    = CLType{tag: clTypeString}
	TypeKey       = CLType{tag: clTypeKey}
	TypePublicKey = CLType{tag: clTypePublicKey}
)

func TypeOption(inner CLType) CLType {
	return CLType{tag: clTypeOption, inner: &inner}
}

func TypeByteArray(size uint32) CLType {
	return CLType{tag: clTypeByteArray, size: size}
}

func (t CLType) Bytes() []byte {
	out := []byte{t.tag}
	switch t.tag {
	case clTypeOption:
		out = append(out, t.inner.Bytes()...)
	case clTypeByteArray:
		out = appendU32(out, t.size)
	}
	return out
}

func (t CLType) MarshalJSON() ([]byte, error) {
	switch t.tag {
	case clTypeOption:
		return json.Marshal(map[string]CLType{"Option": *t.inner})
	case clTypeByteArray:
		return json.Marshal(map[string]uint32{"ByteArray": t.size})
	}
	return json.Marshal(clTypeNames[t.tag])
}

var clTypeNames = map[byte]string{
	clTypeU64:       "U64",
	clTypeU256:      "U256",
	clTypeU512:      "U512",
	clTypeString:    "String",
	clTypeKey:       "Key",
	clTypePublicKey: "PublicKey",
}

// CLValue is a serialized value together with its type.
type CLValue struct {
	Type   CLType
	Bytes  []byte
	Parsed interface{}
}

func (v CLValue) ToBytes() []byte {
	out := appendBytes(nil, v.Bytes)
	return append(out, v.Type.Bytes()...)
}

func (v CLValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(clValueJSON{
		CLType: v.Type,
		Bytes:  hexEncode(v.Bytes),
		Parsed: v.Parsed,
	})
}

type clValueJSON struct {
	CLType CLType      `json:"cl_type"`
	Bytes  string      `json:"bytes"`
	Parsed interface{} `json:"parsed"`
}

func U64Value(v uint64) CLValue {
	return CLValue{Type: TypeU64, Bytes: appendU64(nil, v), Parsed: v}
}

func U256Value(v *big.Int) CLValue {
	return CLValue{Type: TypeU256, Bytes: encodeUint(v), Parsed: v.String()}
}

func U512Value(v *big.Int) CLValue {
	return CLValue{Type: TypeU512, Bytes: encodeUint(v), Parsed: v.String()}
}

func StringValue(s string) CLValue {
	return CLValue{Type: TypeString, Bytes: appendString(nil, s), Parsed: s}
}

func OptionU64Value(v *uint64) CLValue {
	t := TypeOption(TypeU64)
	if v == nil {
		return CLValue{Type: t, Bytes: []byte{0}, Parsed: nil}
	}
	return CLValue{Type: t, Bytes: appendU64([]byte{1}, *v), Parsed: *v}
}

func PublicKeyValue(pk PublicKey) CLValue {
	return CLValue{Type: TypePublicKey, Bytes: pk.Bytes(), Parsed: pk.Hex()}
}

func ByteArrayValue(b []byte) CLValue {
	return CLValue{Type: TypeByteArray(uint32(len(b))), Bytes: append([]byte(nil), b...), Parsed: hexEncode(b)}
}

// AccountKeyValue is Key::Account(hash).
func AccountKeyValue(accountHash [32]byte) CLValue {
	return CLValue{
		Type:   TypeKey,
		Bytes:  append([]byte{0}, accountHash[:]...),
		Parsed: map[string]string{"Account": "account-hash-" + hexEncode(accountHash[:])},
	}
}

type NamedArg struct {
	Name  string
	Value CLValue
}

func (a NamedArg) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{a.Name, a.Value})
}

func argsBytes(args []NamedArg) []byte {
	out := appendU32(nil, uint32(len(args)))
	for _, a := range args {
		out = appendString(out, a.Name)
		out = append(out, a.Value.ToBytes()...)
	}
	return out
}

// encodeUint writes U128/U256/U512: one length byte, then the trimmed LE magnitude.
func encodeUint(v *big.Int) []byte {
	be := v.Bytes()
	out := make([]byte, 1, len(be)+1)
	out[0] = byte(len(be))
	for i := len(be) - 1; i >= 0; i-- {
		out = append(out, be[i])
	}
	return out
}

func appendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendU64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

func appendBytes(b, v []byte) []byte {
	b = appendU32(b, uint32(len(v)))
	return append(b, v...)
}

func appendString(b []byte, s string) []byte {
	return appendBytes(b, []byte(s))
}
