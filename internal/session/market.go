package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/event"
	"BrokerBridge/internal/marketdata"
)

// TickListener receives the snapshot state after every tick merge on a
// streaming subscription. It runs on the reader goroutine and must not block.
type TickListener func(marketdata.Snapshot)

// marketHandler accumulates tick events into per-id snapshots and delivers
// them when the snapshot's fulfill mode is satisfied. Ticks are merged only
// on the reader goroutine; beginSnapshot and forget run on caller goroutines,
// so the maps are mutex guarded.
type marketHandler struct {
	session *Session
	log     zerolog.Logger

	mu        sync.Mutex
	snaps     map[int]*marketdata.Snapshot
	contracts map[int]contract.Descriptor
	listeners map[int][]TickListener
}

func newMarketHandler(s *Session) *marketHandler {
	return &marketHandler{
		session:   s,
		log:       s.log.With().Str("component", "market").Logger(),
		snaps:     make(map[int]*marketdata.Snapshot),
		contracts: make(map[int]contract.Descriptor),
		listeners: make(map[int][]TickListener),
	}
}

// beginSnapshot stages an empty accumulation record for id before the
// subscription request goes out, so the first tick always finds its target.
func (h *marketHandler) beginSnapshot(id int, desc contract.Descriptor, mode marketdata.FulfillMode, streaming bool) {
	h.mu.Lock()
	h.snaps[id] = &marketdata.Snapshot{Mode: mode, Streaming: streaming}
	h.contracts[id] = desc
	h.mu.Unlock()
}

// addListener attaches a streaming tick listener to id.
func (h *marketHandler) addListener(id int, fn TickListener) {
	h.mu.Lock()
	h.listeners[id] = append(h.listeners[id], fn)
	h.mu.Unlock()
}

// forget drops all accumulation state for id. Called after delivery, after
// a failed send, or when a streaming subscription is torn down.
func (h *marketHandler) forget(id int) {
	h.mu.Lock()
	delete(h.snaps, id)
	delete(h.contracts, id)
	delete(h.listeners, id)
	h.mu.Unlock()
}

func (h *marketHandler) onTickPrice(e event.TickPrice) {
	h.mu.Lock()
	snap, ok := h.snaps[e.ReqID]
	if !ok {
		h.mu.Unlock()
		h.session.metrics.StaleCallbacks.Inc()
		h.log.Debug().Int("req_id", e.ReqID).Str("field", e.Field).Msg("tick for unknown id")
		return
	}
	var cancel bool
	if snap.ApplyPrice(e.Field, e.Price) {
		cancel = h.afterMergeLocked(e.ReqID, snap)
	}
	h.mu.Unlock()
	if cancel {
		h.cancel(e.ReqID)
	}
}

func (h *marketHandler) onTickSize(e event.TickSize) {
	h.mu.Lock()
	snap, ok := h.snaps[e.ReqID]
	if !ok {
		h.mu.Unlock()
		h.session.metrics.StaleCallbacks.Inc()
		return
	}
	var cancel bool
	if snap.ApplySize(e.Field, e.Size) {
		cancel = h.afterMergeLocked(e.ReqID, snap)
	}
	h.mu.Unlock()
	if cancel {
		h.cancel(e.ReqID)
	}
}

func (h *marketHandler) onTickGeneric(e event.TickGeneric) {
	// Generic ticks never feed readiness; logged for diagnostics only.
	h.log.Debug().Int("req_id", e.ReqID).Str("field", e.Field).
		Float64("value", e.Value).Msg("generic tick")
}

func (h *marketHandler) onTickString(e event.TickString) {
	h.log.Debug().Int("req_id", e.ReqID).Str("field", e.Field).
		Str("value", e.Value).Msg("string tick")
}

func (h *marketHandler) onTickOptionModel(e event.TickOptionModel) {
	h.mu.Lock()
	snap, ok := h.snaps[e.ReqID]
	if !ok {
		h.mu.Unlock()
		h.session.metrics.StaleCallbacks.Inc()
		return
	}
	tick := marketdata.ModelTick{
		ImpliedVol: e.ImpliedVol,
		Delta:      e.Delta,
		ModelPrice: e.ModelPrice,
		Gamma:      e.Gamma,
		Vega:       e.Vega,
		Theta:      e.Theta,
		UndPrice:   e.UndPrice,
	}
	var cancel bool
	if snap.ApplyModel(tick) {
		cancel = h.afterMergeLocked(e.ReqID, snap)
	}
	h.mu.Unlock()
	if cancel {
		h.cancel(e.ReqID)
	}
}

// onSnapshotEnd handles the gateway terminating a one-shot snapshot. If the
// snapshot never reached readiness it is delivered as-is: a partial quote now
// beats a guaranteed timeout, and the caller can inspect which fields landed.
func (h *marketHandler) onSnapshotEnd(e event.TickSnapshotEnd) {
	h.mu.Lock()
	snap, ok := h.snaps[e.ReqID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if !snap.Fulfilled {
		h.session.metrics.SnapshotsPartial.Inc()
		h.log.Warn().Int("req_id", e.ReqID).Str("mode", snap.Mode.String()).
			Msg("snapshot ended before readiness, delivering partial")
		h.deliverLocked(e.ReqID, snap)
	}
	cancel := h.eraseLocked(e.ReqID, snap)
	h.mu.Unlock()
	if cancel {
		h.cancel(e.ReqID)
	}
}

func (h *marketHandler) onMarketDataType(e event.MarketDataType) {
	h.log.Debug().Int("req_id", e.ReqID).Int("kind", e.Kind).Msg("market data type")
}

// afterMergeLocked runs after any tick changed the snapshot: it notifies
// streaming listeners and, for one-shot requests, checks readiness. It
// reports whether the caller must cancel the subscription after unlocking.
func (h *marketHandler) afterMergeLocked(id int, snap *marketdata.Snapshot) bool {
	for _, fn := range h.listeners[id] {
		fn(*snap)
	}
	if snap.Streaming || snap.Fulfilled {
		return false
	}
	if !snap.Ready() {
		return false
	}
	h.deliverLocked(id, snap)
	return h.eraseLocked(id, snap)
}

// deliverLocked hands the accumulated snapshot to the waiting caller exactly
// once. A missing last price is backfilled from the bid/ask midpoint so
// callers asking for a reference price on quote-only instruments still get
// one.
func (h *marketHandler) deliverLocked(id int, snap *marketdata.Snapshot) {
	if snap.Fulfilled {
		return
	}
	snap.Fulfilled = true
	if !marketdata.ValidPrice(snap.Last) && snap.HasBidAsk() {
		snap.Last = snap.Mid()
	}
	if desc, ok := h.contracts[id]; ok {
		h.log.Debug().Int("req_id", id).Str("contract", desc.String()).
			Str("mode", snap.Mode.String()).Msg("snapshot delivered")
	}
	h.session.table.deliver(id, *snap)
}

// eraseLocked drops the staging state and reports whether the subscription
// still needs cancelling. The cancelled flag stops a tick racing the
// teardown from cancelling twice. The cancel itself is a network write, so
// the caller issues it after releasing the handler lock.
func (h *marketHandler) eraseLocked(id int, snap *marketdata.Snapshot) bool {
	needCancel := !snap.Cancelled
	snap.Cancelled = true
	delete(h.snaps, id)
	delete(h.contracts, id)
	delete(h.listeners, id)
	return needCancel
}

// cancel tears the gateway subscription down. Never called under mu: a slow
// transport write must not stall tick processing.
func (h *marketHandler) cancel(id int) {
	if err := h.session.client.CancelMarketData(context.Background(), id); err != nil {
		h.log.Warn().Err(err).Int("req_id", id).Msg("cancel market data failed")
	}
}
