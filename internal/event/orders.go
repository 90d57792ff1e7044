package event

import (
	"github.com/shopspring/decimal"

	"BrokerBridge/internal/contract"
	"BrokerBridge/internal/orders"
)

// OrderStatus is one order lifecycle update.
type OrderStatus struct {
	OrderID      int
	Status       string
	Filled       decimal.Decimal
	Remaining    decimal.Decimal
	AvgFillPrice float64
	PermID       int64
	ClientID     int
	WhyHeld      string
}

func (OrderStatus) EventType() string { return TypeOrderStatus }

// Update converts the event into the caller-facing status record.
func (e OrderStatus) Update() orders.StatusUpdate {
	return orders.StatusUpdate{
		OrderID:      e.OrderID,
		Status:       e.Status,
		Filled:       e.Filled,
		Remaining:    e.Remaining,
		AvgFillPrice: e.AvgFillPrice,
		WhyHeld:      e.WhyHeld,
	}
}

// OpenOrder is one order reported during an open-orders sweep.
type OpenOrder struct {
	OrderID  int
	Contract contract.Descriptor
	Order    orders.Order
	Status   string
}

func (OpenOrder) EventType() string { return TypeOpenOrder }

// OpenOrderEnd terminates an open-orders sweep.
type OpenOrderEnd struct{}

func (OpenOrderEnd) EventType() string { return TypeOpenOrderEnd }
