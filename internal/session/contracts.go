package session

import (
	"sync"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/event"
)

// contractHandler stages multi-part contract results until their end marker.
// Contract details deliver on the first result; option chains arrive as one
// part per exchange venue and deliver only when the end event seals the set.
type contractHandler struct {
	session *Session
	log     zerolog.Logger

	mu     sync.Mutex
	chains map[int][]contract.ChainInfo
}

func newContractHandler(s *Session) *contractHandler {
	return &contractHandler{
		session: s,
		log:     s.log.With().Str("component", "contracts").Logger(),
		chains:  make(map[int][]contract.ChainInfo),
	}
}

// onDetails delivers the first resolved instrument for the lookup. Callers
// waiting for a full Details or only its Descriptor are both satisfied; the
// dispatch table picks whichever shape the record registered.
func (h *contractHandler) onDetails(e event.ContractDetails) {
	h.session.table.deliver(e.ReqID, e.Details, e.Details.Descriptor)
}

func (h *contractHandler) onDetailsEnd(e event.ContractDetailsEnd) {
	// The lookup already delivered on its first result; the end marker only
	// matters when no result preceded it, which the caller sees as a timeout.
	h.log.Debug().Int("req_id", e.ReqID).Msg("contract details end")
}

// onChainPart merges one venue's slice into the staged chain set. Repeat
// parts for a venue already staged merge into it instead of duplicating.
func (h *contractHandler) onChainPart(e event.OptionChainPart) {
	h.mu.Lock()
	defer h.mu.Unlock()

	parts := h.chains[e.ReqID]
	for i := range parts {
		if parts[i].Exchange == e.Chain.Exchange && parts[i].TradingClass == e.Chain.TradingClass {
			parts[i].Merge(e.Chain)
			h.chains[e.ReqID] = parts
			return
		}
	}
	h.chains[e.ReqID] = append(parts, e.Chain)
}

// onChainEnd seals the staged set and delivers it.
func (h *contractHandler) onChainEnd(e event.OptionChainEnd) {
	h.mu.Lock()
	parts := h.chains[e.ReqID]
	delete(h.chains, e.ReqID)
	h.mu.Unlock()

	h.log.Debug().Int("req_id", e.ReqID).Int("venues", len(parts)).Msg("option chain complete")
	h.session.table.deliver(e.ReqID, parts)
}

// forgetChain drops staged chain parts for id after a failed send or timeout.
func (h *contractHandler) forgetChain(id int) {
	h.mu.Lock()
	delete(h.chains, id)
	h.mu.Unlock()
}
