// Package event defines the typed inbound events delivered by the brokerage
// gateway. Every event is parsed from a raw transport frame and dispatched on
// the reader goroutine; events that correlate to a request carry the request
// or ticker id the caller chose at send time.
package event

// Wire type discriminators for inbound events.
const (
	TypeTickPrice          = "tick_price"
	TypeTickSize           = "tick_size"
	TypeTickGeneric        = "tick_generic"
	TypeTickString         = "tick_string"
	TypeTickOptionModel    = "tick_option_model"
	TypeTickSnapshotEnd    = "tick_snapshot_end"
	TypeContractDetails    = "contract_details"
	TypeContractDetailsEnd = "contract_details_end"
	TypeOptionChainPart    = "option_chain_part"
	TypeOptionChainEnd     = "option_chain_end"
	TypePosition           = "position"
	TypePositionEnd        = "position_end"
	TypeAccountSummary     = "account_summary"
	TypeAccountSummaryEnd  = "account_summary_end"
	TypeOrderStatus        = "order_status"
	TypeOpenOrder          = "open_order"
	TypeOpenOrderEnd       = "open_order_end"
	TypeNextValidID        = "next_valid_id"
	TypeGatewayError       = "error"
	TypeConnectionClosed   = "connection_closed"
	TypeMarketDataType     = "market_data_type"
)

// Event is implemented by every typed inbound event.
type Event interface {
	EventType() string
}
