package session

import (
	"github.com/rs/zerolog"

	"BrokerBridge/internal/event"
	"BrokerBridge/internal/observability"
)

// demux routes every inbound event to its domain handler. It is composed of
// independent handlers instead of one grown object so each domain owns its
// own staging state; all of them run exclusively on the reader goroutine.
type demux struct {
	session  *Session
	market   *marketHandler
	contract *contractHandler
	order    *orderHandler
	account  *accountHandler
	log      zerolog.Logger
	metrics  *observability.Metrics
}

func newDemux(s *Session) *demux {
	return &demux{
		session:  s,
		market:   newMarketHandler(s),
		contract: newContractHandler(s),
		order:    newOrderHandler(s),
		account:  newAccountHandler(s),
		log:      s.log.With().Str("component", "demux").Logger(),
		metrics:  s.metrics,
	}
}

// dispatch routes one event. Every handler call runs behind a recover
// boundary: the reader goroutine is shared infrastructure, and a panic on it
// would permanently stall every outstanding and future synchronous request.
func (d *demux) dispatch(ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.metrics.HandlerPanics.Inc()
			d.log.Error().Str("event", ev.EventType()).Interface("panic", r).
				Msg("event handler panicked, reader continues")
		}
	}()

	switch e := ev.(type) {
	case event.TickPrice:
		d.market.onTickPrice(e)
	case event.TickSize:
		d.market.onTickSize(e)
	case event.TickGeneric:
		d.market.onTickGeneric(e)
	case event.TickString:
		d.market.onTickString(e)
	case event.TickOptionModel:
		d.market.onTickOptionModel(e)
	case event.TickSnapshotEnd:
		d.market.onSnapshotEnd(e)
	case event.MarketDataType:
		d.market.onMarketDataType(e)

	case event.ContractDetails:
		d.contract.onDetails(e)
	case event.ContractDetailsEnd:
		d.contract.onDetailsEnd(e)
	case event.OptionChainPart:
		d.contract.onChainPart(e)
	case event.OptionChainEnd:
		d.contract.onChainEnd(e)

	case event.OrderStatus:
		d.order.onStatus(e)
	case event.OpenOrder:
		d.order.onOpenOrder(e)
	case event.OpenOrderEnd:
		d.order.onOpenOrderEnd(e)

	case event.Position:
		d.account.onPosition(e)
	case event.PositionEnd:
		d.account.onPositionEnd(e)
	case event.AccountSummary:
		d.account.onSummary(e)
	case event.AccountSummaryEnd:
		d.account.onSummaryEnd(e)

	case event.NextValidID:
		d.log.Info().Int("order_id", e.OrderID).Msg("next valid id announced")
		d.session.announceNextValidID(e.OrderID)
	case event.GatewayError:
		d.onGatewayError(e)
	case event.ConnectionClosed:
		d.log.Warn().Msg("gateway closed the connection")

	default:
		d.log.Debug().Str("event", ev.EventType()).Msg("unhandled event type")
	}
}

func (d *demux) onGatewayError(e event.GatewayError) {
	if e.Benign() {
		d.metrics.GatewayErrors.WithLabelValues("benign").Inc()
		d.log.Debug().Int("code", e.Code).Int("req_id", e.ReqID).Str("msg", e.Message).
			Msg("benign gateway notice")
		return
	}
	d.metrics.GatewayErrors.WithLabelValues("error").Inc()
	// Errors are reported, never delivered as values: the waiting caller
	// times out and retries, matching the fire-and-forget contract.
	d.log.Error().Int("code", e.Code).Int("req_id", e.ReqID).Str("msg", e.Message).
		Msg("gateway error")
}
