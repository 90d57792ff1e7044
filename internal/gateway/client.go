package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/orders"
)

// Outbound request type discriminators.
const (
	reqMarketData      = "req_market_data"
	reqCancelMktData   = "cancel_market_data"
	reqContractDetails = "req_contract_details"
	reqOptionChain     = "req_option_chain"
	reqPositions       = "req_positions"
	reqCancelPositions = "cancel_positions"
	reqAccountSummary  = "req_account_summary"
	reqPlaceOrder      = "place_order"
	reqCancelOrder     = "cancel_order"
	reqAllOpenOrders   = "req_all_open_orders"
)

// Client wraps a Transport with the typed outbound call surface. All calls
// are fire-and-forget; results come back as events correlated by id.
type Client struct {
	transport Transport
	log       zerolog.Logger
}

// NewClient creates the outbound call surface over a transport.
func NewClient(transport Transport, log zerolog.Logger) *Client {
	return &Client{transport: transport, log: log}
}

// Transport exposes the underlying transport for lifecycle management.
func (c *Client) Transport() Transport { return c.transport }

func (c *Client) send(ctx context.Context, reqType string, reqID int, payload any) error {
	req, err := NewRequest(reqType, reqID, payload)
	if err != nil {
		return err
	}
	c.log.Debug().Str("type", reqType).Int("req_id", reqID).Msg("outbound request")
	return c.transport.Send(ctx, req)
}

type marketDataPayload struct {
	Contract contract.Descriptor `json:"contract"`
	Snapshot bool                `json:"snapshot"`
}

// ReqMarketData subscribes id to tick events for the instrument. snapshot
// requests a one-off quote; the gateway then terminates the stream with a
// tick_snapshot_end event.
func (c *Client) ReqMarketData(ctx context.Context, reqID int, desc contract.Descriptor, snapshot bool) error {
	return c.send(ctx, reqMarketData, reqID, marketDataPayload{Contract: desc, Snapshot: snapshot})
}

// CancelMarketData frees the subscription slot held by reqID.
func (c *Client) CancelMarketData(ctx context.Context, reqID int) error {
	return c.send(ctx, reqCancelMktData, reqID, nil)
}

type contractDetailsPayload struct {
	Contract contract.Descriptor `json:"contract"`
}

// ReqContractDetails asks the gateway to resolve an instrument.
func (c *Client) ReqContractDetails(ctx context.Context, reqID int, desc contract.Descriptor) error {
	return c.send(ctx, reqContractDetails, reqID, contractDetailsPayload{Contract: desc})
}

type optionChainPayload struct {
	Symbol          string `json:"symbol"`
	SecType         string `json:"sec_type"`
	UnderlyingConID int64  `json:"underlying_con_id"`
}

// ReqOptionChain asks for the option chain definition of an underlying,
// which must already be resolved to a contract id.
func (c *Client) ReqOptionChain(ctx context.Context, reqID int, symbol, secType string, conID int64) error {
	return c.send(ctx, reqOptionChain, reqID, optionChainPayload{
		Symbol: symbol, SecType: secType, UnderlyingConID: conID,
	})
}

// ReqPositions starts an account-wide positions sweep.
func (c *Client) ReqPositions(ctx context.Context) error {
	return c.send(ctx, reqPositions, 0, nil)
}

// CancelPositions stops position updates after a sweep.
func (c *Client) CancelPositions(ctx context.Context) error {
	return c.send(ctx, reqCancelPositions, 0, nil)
}

type accountSummaryPayload struct {
	Tags string `json:"tags"`
}

// ReqAccountSummary starts an account summary sweep for the given tags
// (comma separated, e.g. "NetLiquidation,BuyingPower").
func (c *Client) ReqAccountSummary(ctx context.Context, reqID int, tags string) error {
	return c.send(ctx, reqAccountSummary, reqID, accountSummaryPayload{Tags: tags})
}

type placeOrderPayload struct {
	Contract contract.Descriptor `json:"contract"`
	Order    orders.Order        `json:"order"`
}

// PlaceOrder submits an order under orderID.
func (c *Client) PlaceOrder(ctx context.Context, orderID int, desc contract.Descriptor, o orders.Order) error {
	return c.send(ctx, reqPlaceOrder, orderID, placeOrderPayload{Contract: desc, Order: o})
}

// CancelOrder cancels the order submitted under orderID.
func (c *Client) CancelOrder(ctx context.Context, orderID int) error {
	return c.send(ctx, reqCancelOrder, orderID, nil)
}

// ReqAllOpenOrders starts an open-orders sweep across all client sessions.
func (c *Client) ReqAllOpenOrders(ctx context.Context) error {
	return c.send(ctx, reqAllOpenOrders, 0, nil)
}
