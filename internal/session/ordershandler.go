package session

import (
	"sync"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/event"
	"BrokerBridge/internal/orders"
)

// StatusListener receives every order-status update. It runs on the reader
// goroutine and must not block.
type StatusListener func(orders.StatusUpdate)

// orderHandler routes order lifecycle events. A placed order fulfills its
// waiting caller on the first status report; later reports for the same id
// fan out to status listeners. Open-order sweeps stage until their end
// marker and deliver under the well-known sweep id.
type orderHandler struct {
	session *Session
	log     zerolog.Logger

	mu        sync.Mutex
	open      []orders.OpenOrderInfo
	sweeping  bool
	listeners []StatusListener
}

func newOrderHandler(s *Session) *orderHandler {
	return &orderHandler{
		session: s,
		log:     s.log.With().Str("component", "orders").Logger(),
	}
}

// addStatusListener registers fn for every subsequent status update.
func (h *orderHandler) addStatusListener(fn StatusListener) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// beginSweep stages an empty open-orders buffer. Called only after the
// sweep id registered, so a rejected concurrent sweep never reaches the
// buffer of the one in flight.
func (h *orderHandler) beginSweep() {
	h.mu.Lock()
	h.open = nil
	h.sweeping = true
	h.mu.Unlock()
}

// abortSweep drops staging after the sweep request failed to send.
func (h *orderHandler) abortSweep() {
	h.mu.Lock()
	h.open = nil
	h.sweeping = false
	h.mu.Unlock()
}

func (h *orderHandler) onStatus(e event.OrderStatus) {
	update := e.Update()

	// First status fulfills a pending placement; the dispatch table drops
	// the attempt silently when nothing is waiting.
	h.session.table.deliver(e.OrderID, update)

	h.mu.Lock()
	listeners := make([]StatusListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(update)
	}
}

func (h *orderHandler) onOpenOrder(e event.OpenOrder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.sweeping {
		h.log.Debug().Int("order_id", e.OrderID).Msg("open order outside a sweep")
		return
	}
	h.open = append(h.open, orders.OpenOrderInfo{
		OrderID:  e.OrderID,
		Contract: e.Contract,
		Order:    e.Order,
		Status:   e.Status,
	})
}

func (h *orderHandler) onOpenOrderEnd(event.OpenOrderEnd) {
	h.mu.Lock()
	result := h.open
	h.open = nil
	h.sweeping = false
	h.mu.Unlock()

	h.log.Debug().Int("orders", len(result)).Msg("open orders sweep complete")
	h.session.table.deliver(AllOpenOrderID, result)
}
