package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/account"
	"BrokerBridge/internal/event"
)

// accountHandler stages account-wide sweeps. Positions are a broadcast with
// no per-call id, so they correlate to the well-known positions id; account
// summaries carry their own request id.
type accountHandler struct {
	session *Session
	log     zerolog.Logger

	mu        sync.Mutex
	positions []account.PositionInfo
	sweeping  bool
	summaries map[int][]account.SummaryValue
}

func newAccountHandler(s *Session) *accountHandler {
	return &accountHandler{
		session:   s,
		log:       s.log.With().Str("component", "account").Logger(),
		summaries: make(map[int][]account.SummaryValue),
	}
}

// beginPositions stages an empty positions buffer. Called only after the
// well-known positions id registered, so a rejected concurrent sweep never
// reaches the buffer of the one in flight.
func (h *accountHandler) beginPositions() {
	h.mu.Lock()
	h.positions = nil
	h.sweeping = true
	h.mu.Unlock()
}

// abortPositions drops staging after the sweep request failed to send.
func (h *accountHandler) abortPositions() {
	h.mu.Lock()
	h.positions = nil
	h.sweeping = false
	h.mu.Unlock()
}

func (h *accountHandler) onPosition(e event.Position) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.sweeping {
		h.log.Debug().Str("account", e.Account).Msg("position outside a sweep")
		return
	}
	h.positions = append(h.positions, account.PositionInfo{
		Account:  e.Account,
		Contract: e.Contract,
		Quantity: e.Quantity,
		AvgCost:  e.AvgCost,
	})
}

// onPositionEnd seals the sweep, stops further position broadcasts, and
// delivers the buffered set under the well-known positions id.
func (h *accountHandler) onPositionEnd(event.PositionEnd) {
	h.mu.Lock()
	result := h.positions
	h.positions = nil
	h.sweeping = false
	h.mu.Unlock()

	if err := h.session.client.CancelPositions(context.Background()); err != nil {
		h.log.Warn().Err(err).Msg("cancel positions failed")
	}
	h.log.Debug().Int("positions", len(result)).Msg("positions sweep complete")
	h.session.table.deliver(PositionID, result)
}

func (h *accountHandler) onSummary(e event.AccountSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summaries[e.ReqID] = append(h.summaries[e.ReqID], account.SummaryValue{
		Account:  e.Account,
		Tag:      e.Tag,
		Value:    e.Value,
		Currency: e.Currency,
	})
}

func (h *accountHandler) onSummaryEnd(e event.AccountSummaryEnd) {
	h.mu.Lock()
	result := h.summaries[e.ReqID]
	delete(h.summaries, e.ReqID)
	h.mu.Unlock()

	h.log.Debug().Int("req_id", e.ReqID).Int("values", len(result)).Msg("account summary complete")
	h.session.table.deliver(e.ReqID, result)
}

// forgetSummary drops staged values for id after a failed send or timeout.
func (h *accountHandler) forgetSummary(id int) {
	h.mu.Lock()
	delete(h.summaries, id)
	h.mu.Unlock()
}
