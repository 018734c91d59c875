package telemetry_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperevent"
	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/controller"
	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/testutil"
	"github.com/dwarvesf/casper-bridge-relayer/internal/telemetry"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

const testContractHash = "hash-aa00000000000000000000000000000000000000000000000000000000000001"

type fakeEth struct {
	mu       sync.Mutex
	head     uint64
	headErr  error
	deposits []ethrpc.DepositEvent
	failFrom map[uint64]error
	ranges   [][2]uint64
	releases []string
}

func (f *fakeEth) BlockNumber(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.head, f.headErr
}

func (f *fakeEth) FilterDeposits(ctx context.Context, from, to uint64) ([]ethrpc.DepositEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = append(f.ranges, [2]uint64{from, to})
	if err := f.failFrom[from]; err != nil {
		return nil, err
	}
	var out []ethrpc.DepositEvent
	for _, d := range f.deposits {
		if d.BlockNumber >= from && d.BlockNumber <= to {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeEth) Release(ctx context.Context, swapID *big.Int, recipient common.Address, amount *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, swapID.String())
	return "0xeth" + swapID.String(), nil
}

func (f *fakeEth) RelayerAddress() common.Address {
	return common.HexToAddress("0x00000000000000000000000000000000000000aa")
}

func (f *fakeEth) scanned() [][2]uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]uint64(nil), f.ranges...)
}

func (f *fakeEth) resetRanges() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ranges = nil
}

type fakeCasper struct {
	mu        sync.Mutex
	rootErr   error
	length    *uint32
	events    map[uint64]json.RawMessage
	eventErrs map[uint64]error
	fetched   []uint64
	releases  []string
}

func newFakeCasper() *fakeCasper {
	return &fakeCasper{
		events:    map[uint64]json.RawMessage{},
		eventErrs: map[uint64]error{},
	}
}

func (f *fakeCasper) ContractHash() string { return testContractHash }

func (f *fakeCasper) GetStateRootHash(ctx context.Context) (string, error) {
	return "root", f.rootErr
}

func (f *fakeCasper) EventsLength(ctx context.Context, stateRootHash string) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.length == nil {
		return 0, false
	}
	return *f.length, true
}

func (f *fakeCasper) GetEvent(ctx context.Context, stateRootHash string, index uint64) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, index)
	if err := f.eventErrs[index]; err != nil {
		return nil, err
	}
	ev, ok := f.events[index]
	if !ok {
		return nil, &casperrpc.RPCError{Code: -32026, Message: "Dictionary item not found"}
	}
	return ev, nil
}

func (f *fakeCasper) Release(ctx context.Context, swapID, recipient string, amount *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, swapID)
	return "deploy-" + swapID, nil
}

func (f *fakeCasper) setLength(n uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.length = &n
}

func (f *fakeCasper) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

type recordingController struct {
	mu    sync.Mutex
	calls []string
	err   map[string]error
}

func (c *recordingController) ExecuteReleaseOnCasper(ctx context.Context, swap *model.Swap) (string, error) {
	return c.record("casper", swap)
}

func (c *recordingController) ExecuteReleaseOnEthereum(ctx context.Context, swap *model.Swap) (string, error) {
	return c.record("ethereum", swap)
}

func (c *recordingController) record(chain string, swap *model.Swap) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, chain+":"+swap.SwapID)
	if err := c.err[swap.SwapID]; err != nil {
		return "", err
	}
	return "hash-" + swap.SwapID, nil
}

type harness struct {
	db     *gorm.DB
	store  *store.Store
	cfg    *config.AppConfig
	eth    *fakeEth
	casper *fakeCasper
	ctrl   controller.IController
	tel    *telemetry.Telemetry
}

func newHarness(t *testing.T, ctrl controller.IController) *harness {
	t.Helper()
	h := &harness{
		db:     testutil.NewDB(t),
		store:  store.New(),
		eth:    &fakeEth{failFrom: map[uint64]error{}},
		casper: newFakeCasper(),
		cfg: &config.AppConfig{
			Ethereum: config.EthereumConfig{BackfillBlocks: 100, ChunkSize: 10},
			Casper:   config.CasperConfig{EventsPerTick: 50},
		},
	}
	if ctrl == nil {
		ctrl = &recordingController{}
	}
	h.useController(ctrl)
	return h
}

func (h *harness) useController(ctrl controller.IController) {
	h.ctrl = ctrl
	h.tel = telemetry.New(h.db, h.store, h.cfg, logger.NewNop(), h.eth, h.casper, casperevent.NewMarkerDecoder(), ctrl)
}

func (h *harness) cursor(t *testing.T) string {
	t.Helper()
	v, ok, err := h.store.RelayerState.Get(h.db, model.CasperEventCursorKey)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		return "<unset>"
	}
	return v
}

func (h *harness) setCursor(t *testing.T, v string) {
	t.Helper()
	if err := h.store.RelayerState.Set(h.db, model.CasperEventCursorKey, v); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) swaps(t *testing.T) map[string]model.Swap {
	t.Helper()
	var rows []model.Swap
	if err := h.db.Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	out := make(map[string]model.Swap, len(rows))
	for _, r := range rows {
		out[r.SwapID] = r
	}
	return out
}

func (h *harness) eventCount(t *testing.T, chain model.Chain) int64 {
	t.Helper()
	n, err := h.store.Event.Count(h.db, chain)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func depositsOf(deposits ...ethrpc.DepositEvent) []ethrpc.DepositEvent {
	return deposits
}

func deposit(swapID int64, block uint64, toChain, recipient string) ethrpc.DepositEvent {
	return ethrpc.DepositEvent{
		SwapID:      big.NewInt(swapID),
		Depositor:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Amount:      big.NewInt(1_000_000_000_000_000_000),
		ToChain:     toChain,
		Recipient:   recipient,
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(swapID*1000 + int64(block))),
	}
}

// casper event payloads in the layout the LockVault contract emits

func u64le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func clString(s string) []byte {
	b := make([]byte, 4, 4+len(s))
	binary.LittleEndian.PutUint32(b, uint32(len(s)))
	return append(b, s...)
}

func storedValue(payload []byte) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"CLValue":{"cl_type":"Any","bytes":"%s","parsed":null}}`, hex.EncodeToString(payload)))
}

func casperDeposit(swapID uint64, toChain, recipient string) json.RawMessage {
	var b bytes.Buffer
	b.Write([]byte{0x60, 0x00, 0x00, 0x00})
	b.WriteString("event_DepositInitiated")
	b.WriteByte(0)
	b.Write(u64le(swapID))
	b.Write(bytes.Repeat([]byte{0xaa}, 32))
	b.Write([]byte{0x00, 0xca, 0x9a, 0x3b}) // 1 CSPR
	b.Write(clString(toChain))
	b.Write(clString(recipient))
	b.Write(make([]byte, 32))
	return storedValue(b.Bytes())
}

func casperSettlement(name string, swapID uint64) json.RawMessage {
	var b bytes.Buffer
	b.WriteString(name)
	b.WriteByte(0)
	b.Write(u64le(swapID))
	b.Write(bytes.Repeat([]byte{0xcc}, 32))
	b.Write([]byte{0x01, 0x05})
	return storedValue(b.Bytes())
}

func casperGarbage() json.RawMessage {
	return storedValue([]byte("this is not a lock vault event at all"))
}
