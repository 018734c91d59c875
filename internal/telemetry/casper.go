package telemetry

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperevent"
	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store"
)

var zeroAccountHash = "account-hash-" + strings.Repeat("00", 32)

func (t *Telemetry) IndexCasperEvents(ctx context.Context) error {
	if !t.casperIndexing.CompareAndSwap(false, true) {
		t.logger.Debug("[IndexCasperEvents] casper indexing already running")
		return nil
	}
	defer t.casperIndexing.Store(false)

	cursor, err := t.readCasperCursor()
	if err != nil {
		t.logger.Error("[IndexCasperEvents][readCasperCursor]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	next := cursor + 1

	// An older decoder may have walked past every deposit without creating
	// swaps. Replay from 0 once; event inserts are idempotent.
	if cursor >= 0 && !t.didRewindForDecode {
		exists, err := t.store.Swap.ExistsFromChain(t.db, model.ChainCasper)
		if err != nil {
			t.logger.Error("[IndexCasperEvents][ExistsFromChain]", map[string]string{
				"error": err.Error(),
			})
			return err
		}
		if !exists {
			t.logger.Warn("[IndexCasperEvents] no casper swaps but cursor advanced, rewinding to re-decode events", map[string]string{
				"cursor":  fmt.Sprint(cursor),
				"decoder": t.decoder.Version(),
			})
			if err := t.rewindCasperCursor(); err != nil {
				return err
			}
			next = 0
			t.didRewindForDecode = true
		}
	}

	stateRoot, err := t.casperRPC.GetStateRootHash(ctx)
	if err != nil {
		t.logger.Error("[IndexCasperEvents][GetStateRootHash]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	length, known := t.casperRPC.EventsLength(ctx, stateRoot)
	if known {
		if (length == 0 && next != 0) || (length > 0 && next > int64(length)) {
			t.logger.Warn("[IndexCasperEvents] cursor is beyond __events_length, rewinding", map[string]string{
				"next":   fmt.Sprint(next),
				"length": fmt.Sprint(length),
			})
			if err := t.rewindCasperCursor(); err != nil {
				return err
			}
			next = 0
		}
		if next >= int64(length) {
			t.logger.Debug("[IndexCasperEvents] no new casper events", map[string]string{
				"next":   fmt.Sprint(next),
				"length": fmt.Sprint(length),
			})
			return nil
		}
	}

	perTick := t.appConfig.Casper.EventsPerTick
	if perTick <= 0 {
		perTick = defaultEventsPerTick
	}

	processed := 0
	defer func() {
		if processed > 0 {
			t.logger.Info("[IndexCasperEvents] processed casper events", map[string]string{
				"count": fmt.Sprint(processed),
				"next":  fmt.Sprint(next),
			})
		}
	}()

	for processed < perTick && (!known || next < int64(length)) {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := t.casperRPC.GetEvent(ctx, stateRoot, uint64(next))
		if err != nil {
			if casperrpc.IsNotFound(err) {
				return nil
			}
			t.logger.Error("[IndexCasperEvents][GetEvent]", map[string]string{
				"index": fmt.Sprint(next),
				"error": err.Error(),
			})
			return err
		}

		if err := t.recordCasperEvent(next, raw); err != nil {
			t.logger.Error("[IndexCasperEvents][recordCasperEvent]", map[string]string{
				"index": fmt.Sprint(next),
				"error": err.Error(),
			})
			return err
		}
		processed++
		next++
	}

	if processed >= perTick {
		t.logger.Info("[IndexCasperEvents] per tick cap reached, pausing until next poll", map[string]string{
			"cap": fmt.Sprint(perTick),
		})
	}
	return nil
}

// recordCasperEvent stores the raw event, applies whatever it decodes to and
// moves the cursor to index in one transaction.
func (t *Telemetry) recordCasperEvent(index int64, raw json.RawMessage) error {
	txHash := fmt.Sprintf("casper_event_%s_%d", t.casperRPC.ContractHash(), index)
	decoded := t.decodeCasperEvent(index, raw)

	return store.DoInTx(t.db, func(tx *gorm.DB) error {
		if _, err := t.store.Event.CreateIfNotExists(tx, &model.Event{
			Chain:       model.ChainCasper,
			EventType:   model.EventTypeContractEvent,
			BlockNumber: 0,
			TxHash:      txHash,
			Payload:     datatypes.JSON(raw),
		}); err != nil {
			return errors.Wrap(err, "insert event")
		}

		if decoded != nil {
			if err := t.applyCasperEvent(tx, decoded, txHash); err != nil {
				return err
			}
		}

		return t.store.RelayerState.Set(tx, model.CasperEventCursorKey, strconv.FormatInt(index, 10))
	})
}

func (t *Telemetry) decodeCasperEvent(index int64, raw json.RawMessage) *casperevent.Event {
	payload, ok := casperevent.ExtractBytes(raw)
	if !ok {
		t.logDecodeFailure(index, nil, errors.New("no payload bytes in stored value"))
		return nil
	}
	ev, err := t.decoder.Decode(payload)
	if err != nil {
		t.logDecodeFailure(index, payload, err)
		return nil
	}
	return ev
}

func (t *Telemetry) logDecodeFailure(index int64, payload []byte, err error) {
	fields := map[string]string{
		"index":   fmt.Sprint(index),
		"decoder": t.decoder.Version(),
		"error":   err.Error(),
	}
	if !t.loggedDecodeFailure {
		t.loggedDecodeFailure = true
		head := payload
		if len(head) > 96 {
			head = head[:96]
		}
		fields["payloadHead"] = hex.EncodeToString(head)
		fields["payloadLen"] = fmt.Sprint(len(payload))
	}
	t.logger.Debug("[IndexCasperEvents][Decode] stored raw event only", fields)
}

func (t *Telemetry) applyCasperEvent(tx *gorm.DB, ev *casperevent.Event, txHash string) error {
	switch ev.Kind {
	case casperevent.KindDepositInitiated:
		toChain, ok := model.ParseChain(ev.ToChain)
		recipient := strings.TrimSpace(ev.Recipient)
		if !ok || recipient == "" {
			t.logger.Warn("[applyCasperEvent] deposit kept as event only", map[string]string{
				"swapId":    ev.SwapID,
				"toChain":   ev.ToChain,
				"recipient": ev.Recipient,
			})
			return nil
		}
		token := ev.Token
		if token == "" || token == zeroAccountHash {
			token = model.NativeTokenAddress
		}
		created, err := t.store.Swap.CreateIfNotExists(tx, &model.Swap{
			SwapID:        ev.SwapID,
			UserAddress:   ev.Depositor,
			FromChain:     model.ChainCasper,
			ToChain:       toChain,
			TokenAddress:  token,
			Amount:        ev.Amount,
			Recipient:     recipient,
			DepositTxHash: &txHash,
			Status:        model.SwapStatusPending,
		})
		if err != nil {
			return errors.Wrap(err, "create swap")
		}
		if created {
			t.logger.Info("[applyCasperEvent] swap created", map[string]string{
				"swapId":  ev.SwapID,
				"toChain": string(toChain),
				"amount":  ev.Amount,
			})
		}

	case casperevent.KindReleaseExecuted:
		changed, err := t.store.Swap.MarkCompleted(tx, ev.SwapID, txHash)
		if err != nil {
			return errors.Wrap(err, "mark completed")
		}
		if changed {
			t.logger.Info("[applyCasperEvent] swap completed by ReleaseExecuted", map[string]string{
				"swapId": ev.SwapID,
			})
		}

	case casperevent.KindRefundExecuted:
		changed, err := t.store.Swap.MarkRefunded(tx, ev.SwapID, txHash)
		if err != nil {
			return errors.Wrap(err, "mark refunded")
		}
		if changed {
			t.logger.Info("[applyCasperEvent] swap refunded", map[string]string{
				"swapId": ev.SwapID,
			})
		}
	}
	return nil
}

// readCasperCursor returns -1 when the cursor is unset or unparsable.
func (t *Telemetry) readCasperCursor() (int64, error) {
	value, ok, err := t.store.RelayerState.Get(t.db, model.CasperEventCursorKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return -1, nil
	}
	cursor, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || cursor < -1 {
		t.logger.Warn("[readCasperCursor] unparsable cursor, starting from 0", map[string]string{
			"value": value,
		})
		return -1, nil
	}
	return cursor, nil
}

func (t *Telemetry) rewindCasperCursor() error {
	if err := t.store.RelayerState.Set(t.db, model.CasperEventCursorKey, "-1"); err != nil {
		t.logger.Error("[rewindCasperCursor][Set]", map[string]string{
			"error": err.Error(),
		})
		return err
	}
	return nil
}
