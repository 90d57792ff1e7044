package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"BrokerBridge/internal/contract"
)

// Order actions.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Order types.
const (
	TypeMarket    = "MKT"
	TypeLimit     = "LMT"
	TypeStop      = "STP"
	TypeStopLimit = "STP LMT"
	TypeTrail     = "TRAIL"
)

// Time-in-force values.
const (
	TIFDay = "DAY"
	TIFGTC = "GTC"
)

// Well-known order status strings reported by the gateway.
const (
	StatusPendingSubmit = "PendingSubmit"
	StatusSubmitted     = "Submitted"
	StatusFilled        = "Filled"
	StatusCancelled     = "Cancelled"
	StatusInactive      = "Inactive"
)

// Order is an order specification submitted to the gateway. ClientRef is a
// bridge-generated reference carried opaquely through the gateway, useful for
// reconciling fills against what this process sent.
type Order struct {
	ClientRef    uuid.UUID       `json:"client_ref"`
	Action       string          `json:"action"`
	Quantity     decimal.Decimal `json:"quantity"`
	OrderType    string          `json:"order_type"`
	LimitPrice   float64         `json:"limit_price,omitempty"`
	AuxPrice     float64         `json:"aux_price,omitempty"` // stop trigger
	TrailAmount  float64         `json:"trail_amount,omitempty"`
	TIF          string          `json:"tif"`
	Transmit     bool            `json:"transmit"`
	AlgoStrategy string          `json:"algo_strategy,omitempty"`
}

func base(action string, quantity int64) Order {
	return Order{
		ClientRef: uuid.New(),
		Action:    action,
		Quantity:  decimal.NewFromInt(quantity),
		TIF:       TIFDay,
		Transmit:  true,
	}
}

// MarketBuy builds a DAY market buy order.
func MarketBuy(quantity int64) Order {
	o := base(ActionBuy, quantity)
	o.OrderType = TypeMarket
	return o
}

// MarketSell builds a DAY market sell order.
func MarketSell(quantity int64) Order {
	o := base(ActionSell, quantity)
	o.OrderType = TypeMarket
	return o
}

// LimitBuy builds a DAY limit buy order.
func LimitBuy(quantity int64, price float64) Order {
	o := base(ActionBuy, quantity)
	o.OrderType = TypeLimit
	o.LimitPrice = price
	return o
}

// LimitSell builds a DAY limit sell order.
func LimitSell(quantity int64, price float64) Order {
	o := base(ActionSell, quantity)
	o.OrderType = TypeLimit
	o.LimitPrice = price
	return o
}

// StopSell builds a GTC stop sell order triggering at stopPrice.
func StopSell(quantity int64, stopPrice float64) Order {
	o := base(ActionSell, quantity)
	o.OrderType = TypeStop
	o.AuxPrice = stopPrice
	o.TIF = TIFGTC
	return o
}

// StopLimitSell builds a GTC stop-limit sell: triggers at stopPrice,
// executes no worse than limitPrice.
func StopLimitSell(quantity int64, stopPrice, limitPrice float64) Order {
	o := base(ActionSell, quantity)
	o.OrderType = TypeStopLimit
	o.AuxPrice = stopPrice
	o.LimitPrice = limitPrice
	o.TIF = TIFGTC
	return o
}

// TrailingStopSell builds a GTC trailing stop sell.
func TrailingStopSell(quantity int64, trailAmount float64) Order {
	o := base(ActionSell, quantity)
	o.OrderType = TypeTrail
	o.TrailAmount = trailAmount
	o.TIF = TIFGTC
	return o
}

// StatusUpdate is one order-status report from the gateway.
type StatusUpdate struct {
	OrderID      int
	Status       string
	Filled       decimal.Decimal
	Remaining    decimal.Decimal
	AvgFillPrice float64
	WhyHeld      string
}

// OpenOrderInfo is an open order with its full context as reported by the
// gateway's open-orders sweep.
type OpenOrderInfo struct {
	OrderID  int
	Contract contract.Descriptor
	Order    Order
	Status   string
}
