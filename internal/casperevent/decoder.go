package casperevent

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"
)

const (
	minPayloadLen = 10
	markerWindow  = 256
	// a string length prefix is searched at most this far past the amount start
	amountWindow = 64
	maxStringLen = 256
)

var marker = []byte("event_")

type markerDecoder struct{}

// NewMarkerDecoder returns the decoder for CES payloads that carry an
// "event_<Name>\x00" header followed by the event fields.
func NewMarkerDecoder() Decoder {
	return markerDecoder{}
}

func (markerDecoder) Version() string {
	return "v1-marker"
}

func (d markerDecoder) Decode(payload []byte) (*Event, error) {
	name, off, ok := readName(payload)
	if !ok {
		return nil, ErrUnrecognized
	}

	r := &reader{buf: payload, off: off}
	switch {
	case strings.HasPrefix(name, "event_"+string(KindDepositInitiated)):
		return decodeDeposit(name, r)
	case strings.HasPrefix(name, "event_"+string(KindReleaseExecuted)):
		return decodeSettlement(name, KindReleaseExecuted, r)
	case strings.HasPrefix(name, "event_"+string(KindRefundExecuted)):
		return decodeSettlement(name, KindRefundExecuted, r)
	}
	return nil, ErrUnrecognized
}

func readName(b []byte) (string, int, bool) {
	if len(b) < minPayloadLen {
		return "", 0, false
	}

	limit := len(b) - len(marker)
	if limit > markerWindow {
		limit = markerWindow
	}
	start := -1
	for i := 0; i <= limit; i++ {
		if bytes.Equal(b[i:i+len(marker)], marker) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", 0, false
	}

	end := bytes.IndexByte(b[start:], 0)
	if end < 0 {
		return "", 0, false
	}
	end += start
	return string(b[start:end]), end + 1, true
}

func decodeDeposit(name string, r *reader) (*Event, error) {
	swapID, ok := r.u64()
	if !ok {
		return nil, ErrUnrecognized
	}
	depositor, ok := r.take(32)
	if !ok {
		return nil, ErrUnrecognized
	}

	amountStart := r.off
	strPos, ok := findStringPrefix(r.buf, amountStart)
	if !ok {
		return nil, ErrUnrecognized
	}
	amount := r.buf[amountStart:strPos]
	r.off = strPos

	toChain, ok := r.str()
	if !ok {
		return nil, ErrUnrecognized
	}
	recipient, ok := r.str()
	if !ok {
		return nil, ErrUnrecognized
	}
	token, ok := r.take(32)
	if !ok {
		return nil, ErrUnrecognized
	}

	return &Event{
		Kind:      KindDepositInitiated,
		Name:      name,
		SwapID:    strconv.FormatUint(swapID, 10),
		Depositor: accountHash(depositor),
		Amount:    decodeAmount(amount),
		ToChain:   toChain,
		Recipient: recipient,
		Token:     accountHash(token),
	}, nil
}

func decodeSettlement(name string, kind Kind, r *reader) (*Event, error) {
	swapID, ok := r.u64()
	if !ok {
		return nil, ErrUnrecognized
	}
	beneficiary, ok := r.take(32)
	if !ok {
		return nil, ErrUnrecognized
	}
	amount := r.buf[r.off:]
	if len(amount) == 0 {
		return nil, ErrUnrecognized
	}

	return &Event{
		Kind:        kind,
		Name:        name,
		SwapID:      strconv.FormatUint(swapID, 10),
		Beneficiary: accountHash(beneficiary),
		Amount:      decodeAmount(amount),
	}, nil
}

// findStringPrefix locates the first u32 length prefix at or after start that
// is followed by a printable ASCII string of that length.
func findStringPrefix(b []byte, start int) (int, bool) {
	limit := start + amountWindow
	if limit > len(b)-4 {
		limit = len(b) - 4
	}
	for p := start; p <= limit; p++ {
		n := int(binary.LittleEndian.Uint32(b[p : p+4]))
		if n == 0 || n > maxStringLen {
			continue
		}
		if p+4+n > len(b) {
			continue
		}
		if printable(b[p+4 : p+4+n]) {
			return p, true
		}
	}
	return 0, false
}

// decodeAmount reads the whole field as a bare little-endian integer.
func decodeAmount(le []byte) string {
	be := make([]byte, len(le))
	for i, v := range le {
		be[len(le)-1-i] = v
	}
	return new(big.Int).SetBytes(be).String()
}

func accountHash(b []byte) string {
	return "account-hash-" + hex.EncodeToString(b)
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) take(n int) ([]byte, bool) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, false
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out, true
}

func (r *reader) u64() (uint64, bool) {
	b, ok := r.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (r *reader) u32() (uint32, bool) {
	b, ok := r.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (r *reader) str() (string, bool) {
	n, ok := r.u32()
	if !ok {
		return "", false
	}
	b, ok := r.take(int(n))
	if !ok {
		return "", false
	}
	return string(b), true
}
