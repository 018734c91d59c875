package casperevent

import (
	"encoding/hex"
	"encoding/json"
	"strings"
)

// ExtractBytes pulls the event bytes out of a stored value as returned by
// state_get_dictionary_item or as persisted in events.payload.
func ExtractBytes(raw json.RawMessage) ([]byte, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decodeHex(s)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}

	if clValue, ok := obj["CLValue"]; ok {
		return fromCLValue(clValue)
	}
	for _, k := range []string{"stored_value", "storedValue"} {
		if inner, ok := obj[k]; ok {
			return ExtractBytes(inner)
		}
	}
	return nil, false
}

func fromCLValue(raw json.RawMessage) ([]byte, bool) {
	// numbers may be quoted, e.g. ["22", "0", ...]
	var numbers []json.Number
	if err := json.Unmarshal(raw, &numbers); err == nil {
		out := make([]byte, 0, len(numbers))
		for _, n := range numbers {
			v, err := n.Int64()
			if err != nil || v < 0 || v > 255 {
				return nil, false
			}
			out = append(out, byte(v))
		}
		return out, true
	}

	var cl struct {
		Bytes string `json:"bytes"`
	}
	if err := json.Unmarshal(raw, &cl); err == nil && cl.Bytes != "" {
		return decodeHex(cl.Bytes)
	}
	return nil, false
}

func decodeHex(s string) ([]byte, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" || len(s)%2 != 0 {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}
